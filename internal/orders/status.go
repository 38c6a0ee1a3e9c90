package orders

import (
	"strings"

	"github.com/example/fornetto/internal/models"
)

// statusSynonyms maps every known historical spelling (Portuguese labels,
// website statuses, old desktop builds) onto the canonical set.
var statusSynonyms = map[string]string{
	"finalizado": models.StatusDone,
	"done":       models.StatusDone,
	"entregue":   models.StatusDone,
	"concluido":  models.StatusDone,
	"concluída":  models.StatusDone,

	"cancelado": models.StatusCancelled,
	"cancelled": models.StatusCancelled,

	"preparing":  models.StatusPreparing,
	"preparo":    models.StatusPreparing,
	"em_preparo": models.StatusPreparing,
	"preparando": models.StatusPreparing,
	"ready":      models.StatusPreparing,
	"pronto":     models.StatusPreparing,
	"pronta":     models.StatusPreparing,

	"out_for_delivery": models.StatusOutForDelivery,
	"em_entrega":       models.StatusOutForDelivery,
	"delivery":         models.StatusOutForDelivery,
	"delivering":       models.StatusOutForDelivery,
	"assigned":         models.StatusOutForDelivery,
	"em rota":          models.StatusOutForDelivery,

	"open":      models.StatusOpen,
	"em_aberto": models.StatusOpen,
	"pendente":  models.StatusOpen,
}

// NormalizeStatus maps legacy status spellings onto the canonical set.
// Unrecognized values pass through lowercased instead of being rejected;
// callers must be prepared to bucket unknown statuses. An empty input
// means a fresh order and becomes "open".
func NormalizeStatus(raw string) string {
	if raw == "" {
		return models.StatusOpen
	}
	s := strings.ToLower(raw)
	if canonical, ok := statusSynonyms[s]; ok {
		return canonical
	}
	return s
}
