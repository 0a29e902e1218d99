package dashboard

import (
	"sort"
	"time"

	"estoque-backend/internal/database"
	"estoque-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductionPoint struct {
	Label      string `json:"label"` // dia (02/01) ou mês (Jan/06)
	Quantidade int    `json:"quantidade"`
}

type ProductionSummaryResponse struct {
	Period string            `json:"period"` // weekly | monthly
	Points []ProductionPoint `json:"points"`
	Total  int               `json:"total"`
}

// GET /api/producao/resumo?period=weekly&modelo_cja=CJA-06&tampo_tipo=MDF
// Soma as movimentações de produção por dia (últimos 7 dias) ou por mês
// (últimos 6 meses), em ordem cronológica.
func ProductionSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", "weekly")
		if period != "weekly" && period != "monthly" {
			return fiber.NewError(fiber.StatusBadRequest, "period deve ser 'weekly' ou 'monthly'")
		}

		now := time.Now()
		var start time.Time
		if period == "weekly" {
			d := now.AddDate(0, 0, -7)
			start = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		} else {
			start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)
		}

		query := database.DB.
			Where("tipo = ? AND timestamp >= ?", models.MovProducaoPronto, start)
		if modelo := c.Query("modelo_cja"); modelo != "" {
			query = query.Where("modelo_cja = ?", modelo)
		}
		if tampo := c.Query("tampo_tipo"); tampo != "" {
			query = query.Where("tampo_tipo = ?", tampo)
		}

		var movs []models.Movimentacao
		if err := query.Find(&movs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível buscar o resumo de produção")
		}

		type bucket struct {
			when  time.Time
			total int
		}
		buckets := map[string]*bucket{}
		total := 0
		for _, m := range movs {
			var key string
			var when time.Time
			if period == "weekly" {
				key = m.Timestamp.Format("02/01")
				when = time.Date(m.Timestamp.Year(), m.Timestamp.Month(), m.Timestamp.Day(), 0, 0, 0, 0, m.Timestamp.Location())
			} else {
				key = m.Timestamp.Format("Jan/06")
				when = time.Date(m.Timestamp.Year(), m.Timestamp.Month(), 1, 0, 0, 0, 0, m.Timestamp.Location())
			}
			b, ok := buckets[key]
			if !ok {
				b = &bucket{when: when}
				buckets[key] = b
			}
			b.total += m.Quantidade
			total += m.Quantidade
		}

		keys := make([]string, 0, len(buckets))
		for k := range buckets {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return buckets[keys[i]].when.Before(buckets[keys[j]].when)
		})

		points := make([]ProductionPoint, 0, len(keys))
		for _, k := range keys {
			points = append(points, ProductionPoint{Label: k, Quantidade: buckets[k].total})
		}

		return c.JSON(ProductionSummaryResponse{
			Period: period,
			Points: points,
			Total:  total,
		})
	}
}
