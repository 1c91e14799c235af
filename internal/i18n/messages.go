package i18n

var messages = map[string]map[string]string{
	LocalePtBR: {
		"success":                       "ok",
		"error.bad_request":             "Requisição inválida",
		"error.unauthorized":            "Sessão expirada. Faça login novamente.",
		"error.token_invalid":           "Token inválido",
		"error.forbidden":               "Acesso restrito ao administrador.",
		"error.not_found":               "Registro não encontrado",
		"error.internal":                "Erro interno",
		"error.too_many_requests":       "Muitas tentativas. Aguarde e tente novamente.",
		"error.login_too_many":          "Muitas tentativas de login. Tente novamente em %d s.",
		"error.rate_limit_unavailable":  "Limite de tentativas indisponível",
		"error.auth_header_missing":     "Cabeçalho Authorization ausente",
		"error.auth_header_invalid":     "Cabeçalho Authorization inválido",
		"error.token_revoked":           "Sessão revogada. Faça login novamente.",
		"error.id_invalid":              "ID inválido",
		"error.admin_id_invalid":        "ID de usuário inválido",
		"error.admin_id_type_invalid":   "Tipo de ID de usuário inválido",
		"error.login_invalid":           "Usuário ou senha inválidos",
		"error.captcha_required":        "Informe o captcha",
		"error.captcha_invalid":         "Captcha inválido",
		"error.fetch_failed":            "Falha ao carregar dados",
		"error.write_failed":            "Falha ao salvar",
		"error.order_not_found":         "Pedido não encontrado",
		"error.retriever_name_required": "Informe o nome de quem está retirando.",
		"error.retrieval_empty":         "Nenhuma quantidade informada para retirada.",
		"error.retrieval_busy":          "Outra retirada deste pedido está em andamento.",
		"error.retrieval_invalid":       "Retirada inválida",
		"error.campaign_not_found":      "Campanha não encontrada",
		"error.no_active_campaign":      "Nenhuma campanha ativa no momento",
		"error.item_not_found":          "Item não encontrado",
		"error.item_name_required":      "Informe o nome do item",
		"error.item_in_use":             "Item em uso e não pode ser excluído",
		"error.campaign_item_not_found": "Vínculo não encontrado",
		"error.campaign_item_exists":    "Este item já está vinculado à campanha",
		"error.campaign_item_invalid":   "Dados do vínculo inválidos",
		"error.club_invalid":            "Dados do clube inválidos",
		"error.public_order_invalid":    "Preencha nome, referência e quantidade",
		"error.flavor_sum_mismatch":     "A soma dos sabores deve ser igual à quantidade",
		"error.phone_invalid":           "WhatsApp inválido",
		"error.item_unavailable":        "Sabor indisponível nesta campanha",
		"error.nothing_to_export":       "Nada para exportar",
		"error.export_format_invalid":   "Formato de exportação inválido",
	},
	LocaleEn: {
		"success":                       "ok",
		"error.bad_request":             "Invalid request",
		"error.unauthorized":            "Session expired. Please log in again.",
		"error.token_invalid":           "Invalid token",
		"error.forbidden":               "Administrator access required.",
		"error.not_found":               "Record not found",
		"error.internal":                "Internal error",
		"error.too_many_requests":       "Too many attempts. Please wait and retry.",
		"error.login_too_many":          "Too many login attempts. Retry in %d s.",
		"error.rate_limit_unavailable":  "Rate limiter unavailable",
		"error.auth_header_missing":     "Missing Authorization header",
		"error.auth_header_invalid":     "Invalid Authorization header",
		"error.token_revoked":           "Session revoked. Please log in again.",
		"error.id_invalid":              "Invalid ID",
		"error.login_invalid":           "Invalid username or password",
		"error.captcha_required":        "Captcha is required",
		"error.captcha_invalid":         "Invalid captcha",
		"error.fetch_failed":            "Failed to load data",
		"error.write_failed":            "Failed to save",
		"error.order_not_found":         "Order not found",
		"error.retriever_name_required": "Retriever name is required.",
		"error.retrieval_empty":         "No quantity to retrieve.",
		"error.retrieval_busy":          "Another retrieval for this order is in progress.",
		"error.retrieval_invalid":       "Invalid retrieval",
		"error.campaign_not_found":      "Campaign not found",
		"error.no_active_campaign":      "No active campaign",
		"error.item_not_found":          "Item not found",
		"error.item_name_required":      "Item name is required",
		"error.item_in_use":             "Item is in use and cannot be deleted",
		"error.campaign_item_not_found": "Campaign item not found",
		"error.campaign_item_exists":    "Item already linked to the campaign",
		"error.campaign_item_invalid":   "Invalid campaign item",
		"error.club_invalid":            "Invalid club data",
		"error.public_order_invalid":    "Name, referrer and quantity are required",
		"error.flavor_sum_mismatch":     "Flavor quantities must add up to the total",
		"error.phone_invalid":           "Invalid WhatsApp number",
		"error.item_unavailable":        "Flavor not available in this campaign",
		"error.nothing_to_export":       "Nothing to export",
		"error.export_format_invalid":   "Invalid export format",
	},
	LocaleZhCN: {
		"success":              "成功",
		"error.bad_request":    "请求参数错误",
		"error.unauthorized":   "登录已过期，请重新登录",
		"error.forbidden":      "无权限访问",
		"error.not_found":      "记录不存在",
		"error.internal":       "服务器内部错误",
		"error.login_invalid":  "用户名或密码错误",
		"error.fetch_failed":   "数据加载失败",
		"error.write_failed":   "保存失败",
		"error.retrieval_busy": "该订单正在登记提货",
	},
}
