package queue

import (
	"fmt"
	"strings"

	"github.com/desbrava-pizza/internal/config"
	"github.com/desbrava-pizza/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 状态修正等需要优先处理的队列
	CriticalQueue = constants.QueueCritical

	statusRecalcMaxRetry = 5
)

// Client 队列客户端封装，未启用时所有推送直接返回 nil
type Client struct {
	client  *asynq.Client
	enabled bool
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false}, nil
	}
	return &Client{
		client:  asynq.NewClient(buildRedisOpt(cfg)),
		enabled: true,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderStatusRecalc 推送订单状态重算任务（提货后同步重算失败时的补偿）
func (c *Client) EnqueueOrderStatusRecalc(payload OrderStatusRecalcPayload, opts ...asynq.Option) error {
	return c.enqueue(TaskOrderStatusRecalc, payload,
		[]asynq.Option{asynq.Queue(CriticalQueue), asynq.MaxRetry(statusRecalcMaxRetry)}, opts)
}

// EnqueueReportCacheInvalidate 推送报表缓存失效任务
func (c *Client) EnqueueReportCacheInvalidate(payload ReportCacheInvalidatePayload, opts ...asynq.Option) error {
	return c.enqueue(TaskReportCacheInvalidate, payload, []asynq.Option{asynq.Queue(DefaultQueue)}, opts)
}

// enqueue 调用方传入的 opts 覆盖默认值
func (c *Client) enqueue(taskType string, payload interface{}, defaults, opts []asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := newTask(taskType, payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task, append(defaults, opts...)...)
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 5
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{CriticalQueue: 3, DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
