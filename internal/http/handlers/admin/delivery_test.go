package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desbrava-pizza/internal/config"
	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type deliveryFixture struct {
	engine *gin.Engine
	db     *gorm.DB
	order  models.Order
	line   models.OrderItem
}

func setupDeliveryHandlerTest(t *testing.T) deliveryFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	org := models.Organization{Nome: "Clube Handler", Ativo: true}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("create org failed: %v", err)
	}
	campaign := models.Campaign{
		OrganizacaoID: org.ID,
		Nome:          "Inverno",
		PrecoBase:     models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		Ativa:         true,
	}
	if err := db.Create(&campaign).Error; err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	item := models.Item{Nome: "Calabresa", Ativo: true}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	order := models.Order{
		CampanhaID:     campaign.ID,
		CodigoPedido:   "DPH1",
		NomeComprador:  "Maria",
		Whatsapp:       "5511987654321",
		NomeReferencia: "Ana",
		Quantidade:     3,
		ValorTotal:     models.NewMoneyFromDecimal(decimal.NewFromInt(150)),
		Status:         constants.OrderStatusPaid,
	}
	if err := db.Omit("Itens", "Campanha").Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	line := models.OrderItem{PedidoID: order.ID, ItemID: item.ID, Quantidade: 3}
	if err := db.Omit("Item").Create(&line).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}

	h := New(provider.NewContainer(&config.Config{}))
	r := gin.New()
	r.GET("/delivery/orders", h.GetDeliveryOrders)
	r.GET("/delivery/export", h.ExportDelivery)
	r.GET("/delivery/orders/:id", h.GetDeliveryOrder)
	r.GET("/delivery/orders/:id/history", h.GetDeliveryOrderHistory)
	r.GET("/delivery/orders/:id/export", h.ExportDeliveryOrder)
	r.POST("/delivery/orders/:id/retrievals", h.RecordRetrieval)
	r.POST("/delivery/orders/:id/retrieve-all", h.PrepareRetrieveAll)
	return deliveryFixture{engine: r, db: db, order: order, line: line}
}

func perform(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		payload = raw
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestPrepareRetrieveAllDoesNotWrite(t *testing.T) {
	fx := setupDeliveryHandlerTest(t)

	_, env := perform(t, fx.engine, http.MethodPost, fmt.Sprintf("/delivery/orders/%d/retrieve-all", fx.order.ID), nil)
	if env.StatusCode != 0 {
		t.Fatalf("retrieve-all failed: %+v", env)
	}
	var selection RetrievalSelection
	if err := json.Unmarshal(env.Data, &selection); err != nil {
		t.Fatalf("decode selection failed: %v", err)
	}
	if selection.NomeRetirante != "Maria" || selection.Quantidades[fx.line.ID] != 3 {
		t.Fatalf("unexpected selection: %+v", selection)
	}

	var count int64
	fx.db.Model(&models.Retrieval{}).Count(&count)
	if count != 0 {
		t.Fatalf("retrieve-all must not write, got %d retrievals", count)
	}
}

func TestRecordRetrievalFlow(t *testing.T) {
	fx := setupDeliveryHandlerTest(t)
	path := fmt.Sprintf("/delivery/orders/%d/retrievals", fx.order.ID)

	_, env := perform(t, fx.engine, http.MethodPost, path, map[string]interface{}{
		"nome_retirante": "Maria",
		"quantidades":    map[string]int{fmt.Sprint(fx.line.ID): 5},
	})
	if env.StatusCode != 400 {
		t.Fatalf("over pending want 400 got %+v", env)
	}

	_, env = perform(t, fx.engine, http.MethodPost, path, map[string]interface{}{
		"nome_retirante": "Maria",
		"quantidades":    map[string]int{fmt.Sprint(fx.line.ID): 0},
	})
	if env.StatusCode != 400 {
		t.Fatalf("empty retrieval want 400 got %+v", env)
	}

	_, env = perform(t, fx.engine, http.MethodPost, path, map[string]interface{}{
		"nome_retirante": "Maria",
		"quantidades":    map[string]int{fmt.Sprint(fx.line.ID): 2},
	})
	if env.StatusCode != 0 {
		t.Fatalf("record retrieval failed: %+v", env)
	}

	_, env = perform(t, fx.engine, http.MethodGet, fmt.Sprintf("/delivery/orders/%d", fx.order.ID), nil)
	var order struct {
		Status  string `json:"status"`
		Pending int    `json:"qtd_pendente"`
	}
	if err := json.Unmarshal(env.Data, &order); err != nil {
		t.Fatalf("decode order failed: %v", err)
	}
	if order.Pending != 1 || order.Status != constants.OrderStatusPartiallyRetrieved {
		t.Fatalf("unexpected order after retrieval: %+v", order)
	}

	_, env = perform(t, fx.engine, http.MethodGet, fmt.Sprintf("/delivery/orders/%d/history", fx.order.ID), nil)
	var history []json.RawMessage
	if err := json.Unmarshal(env.Data, &history); err != nil || len(history) != 1 {
		t.Fatalf("expected one retrieval batch, got %s (%v)", string(env.Data), err)
	}
}

func TestRecordRetrievalIgnoresNonNumericQuantities(t *testing.T) {
	fx := setupDeliveryHandlerTest(t)
	path := fmt.Sprintf("/delivery/orders/%d/retrievals", fx.order.ID)

	_, env := perform(t, fx.engine, http.MethodPost, path, map[string]interface{}{
		"nome_retirante": "Maria",
		"quantidades": map[string]interface{}{
			fmt.Sprint(fx.line.ID): 2,
			"999":                  "",
		},
	})
	if env.StatusCode != 0 {
		t.Fatalf("record retrieval with blank field failed: %+v", env)
	}
	var items []models.RetrievalItem
	if err := fx.db.Find(&items).Error; err != nil {
		t.Fatalf("load retrieval items failed: %v", err)
	}
	if len(items) != 1 || items[0].PedidoItemID != fx.line.ID || items[0].Quantidade != 2 {
		t.Fatalf("unexpected retrieval items: %+v", items)
	}

	_, env = perform(t, fx.engine, http.MethodPost, path, map[string]interface{}{
		"nome_retirante": "Maria",
		"quantidades":    map[string]interface{}{fmt.Sprint(fx.line.ID): "abc"},
	})
	if env.StatusCode != 400 {
		t.Fatalf("all-blank retrieval want 400 got %+v", env)
	}
}

func TestRetrievalQuantityDecoding(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`3`, 3},
		{`"4"`, 4},
		{`" 5 pizzas"`, 5},
		{`2.9`, 2},
		{`""`, 0},
		{`"abc"`, 0},
		{`-2`, 0},
		{`"-1"`, 0},
		{`null`, 0},
		{`true`, 0},
		{`{}`, 0},
	}
	for _, tc := range cases {
		var q RetrievalQuantity
		if err := json.Unmarshal([]byte(tc.raw), &q); err != nil {
			t.Fatalf("decode %s failed: %v", tc.raw, err)
		}
		if int(q) != tc.want {
			t.Fatalf("decode %s: want %d got %d", tc.raw, tc.want, q)
		}
	}
}

func TestRecordRetrievalUnknownOrder(t *testing.T) {
	fx := setupDeliveryHandlerTest(t)
	_, env := perform(t, fx.engine, http.MethodPost, "/delivery/orders/9999/retrievals", map[string]interface{}{
		"nome_retirante": "Maria",
		"quantidades":    map[string]int{"1": 1},
	})
	if env.StatusCode != 404 {
		t.Fatalf("unknown order want 404 got %+v", env)
	}

	_, env = perform(t, fx.engine, http.MethodPost, "/delivery/orders/abc/retrievals", nil)
	if env.StatusCode != 400 {
		t.Fatalf("invalid id want 400 got %+v", env)
	}
}

func TestExportDelivery(t *testing.T) {
	fx := setupDeliveryHandlerTest(t)

	w, _ := perform(t, fx.engine, http.MethodGet, "/delivery/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export want 200 got %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, `filename="entregas_`) || !strings.HasSuffix(got, `.csv"`) {
		t.Fatalf("unexpected content disposition: %s", got)
	}
	if !strings.Contains(w.Body.String(), "DPH1") {
		t.Fatalf("export should contain order code, got %s", w.Body.String())
	}

	_, env := perform(t, fx.engine, http.MethodGet, "/delivery/export?format=pdf", nil)
	if env.StatusCode != 400 {
		t.Fatalf("unknown format want 400 got %+v", env)
	}

	w, _ = perform(t, fx.engine, http.MethodGet, fmt.Sprintf("/delivery/orders/%d/export?format=xlsx&agora=%d:1", fx.order.ID, fx.line.ID), nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Header().Get("Content-Disposition"), "pedido_DPH1_") {
		t.Fatalf("order export failed: %d %s", w.Code, w.Header().Get("Content-Disposition"))
	}
}

func TestParseRetrieveNow(t *testing.T) {
	got, err := parseRetrieveNow([]string{"3:2", " 4 : 1 "})
	if err != nil || got[3] != 2 || got[4] != 1 {
		t.Fatalf("unexpected parse: %v %v", got, err)
	}
	if _, err := parseRetrieveNow([]string{"bad"}); err == nil {
		t.Fatalf("missing separator should fail")
	}
	got, err = parseRetrieveNow([]string{"3:", "4:x"})
	if err != nil || got[3] != 0 || got[4] != 0 {
		t.Fatalf("non-numeric quantity should be 0: %v %v", got, err)
	}
}
