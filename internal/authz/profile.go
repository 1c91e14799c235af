package authz

import (
	"fmt"

	"github.com/desbrava-pizza/internal/constants"
)

// 所有 perfil 共享的基础权限
const baseProfile = "painel"

// ProfileGrant 单个 perfil 的继承关系与路由授权
type ProfileGrant struct {
	Profile  string
	Inherits []string
	Routes   []Policy
}

// ProfileGrants usuarios.perfil 对应的权限矩阵
func ProfileGrants() []ProfileGrant {
	return []ProfileGrant{
		{
			Profile: baseProfile,
			Routes: []Policy{
				{Object: "/admin/me", Action: "GET"},
				{Object: "/admin/logout", Action: "POST"},
			},
		},
		{
			Profile:  constants.ProfileDelivery,
			Inherits: []string{baseProfile},
			Routes: []Policy{
				{Object: "/admin/delivery/filters", Action: "GET"},
				{Object: "/admin/delivery/orders", Action: "GET"},
				{Object: "/admin/delivery/orders/:id", Action: "GET"},
				{Object: "/admin/delivery/orders/:id/history", Action: "GET"},
				{Object: "/admin/delivery/orders/:id/retrievals", Action: "POST"},
				{Object: "/admin/delivery/orders/:id/retrieve-all", Action: "POST"},
				{Object: "/admin/delivery/orders/:id/export", Action: "GET"},
				{Object: "/admin/delivery/export", Action: "GET"},
			},
		},
		{
			Profile:  constants.ProfileFinancial,
			Inherits: []string{baseProfile},
			Routes: []Policy{
				{Object: "/admin/reports/summary", Action: "GET"},
				{Object: "/admin/reports/export", Action: "GET"},
				{Object: "/admin/reports/campaigns/:id/referrers", Action: "GET"},
				{Object: "/admin/reports/campaigns/:id/export", Action: "GET"},
			},
		},
		{
			Profile:  constants.ProfileAdmin,
			Inherits: []string{constants.ProfileDelivery, constants.ProfileFinancial},
			Routes: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

func profileRole(profile string) string {
	return profilePrefix + profile
}

// RoleForProfile 将 usuarios.perfil 映射为 casbin 角色
func RoleForProfile(perfil string) (string, error) {
	switch perfil {
	case constants.ProfileAdmin, constants.ProfileDelivery, constants.ProfileFinancial:
		return profileRole(perfil), nil
	default:
		return "", fmt.Errorf("unknown profile %q", perfil)
	}
}

// SyncAdminProfile 让用户只挂在其 perfil 对应的角色上
func (s *Service) SyncAdminProfile(adminID uint, perfil string) error {
	if adminID == 0 {
		return fmt.Errorf("admin id is required")
	}
	role, err := RoleForProfile(perfil)
	if err != nil {
		return err
	}
	current, err := s.AdminProfiles(adminID)
	if err != nil {
		return err
	}
	if len(current) == 1 && current[0] == role {
		return nil
	}
	return s.assignProfile(adminID, role)
}

// BootstrapBuiltinRoles 写入权限矩阵，重复执行无副作用
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, grant := range ProfileGrants() {
		role := profileRole(grant.Profile)
		for _, parent := range grant.Inherits {
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, profileRole(parent)); err != nil {
				return fmt.Errorf("link profile %s to %s failed: %w", grant.Profile, parent, err)
			}
		}
		for _, route := range grant.Routes {
			action := NormalizeAction(route.Action)
			if action == "" {
				return fmt.Errorf("profile %s route %s has no action", grant.Profile, route.Object)
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(route.Object), action); err != nil {
				return fmt.Errorf("grant profile %s failed: %w", grant.Profile, err)
			}
		}
	}
	return nil
}
