package estoque

import (
	"fmt"
	"time"

	"estoque-backend/internal/database"
	"estoque-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/estoque/export
// Gera a planilha do estoque atual (substitui a planilha manual antiga).
func ExportEstoqueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var itens []models.EstoqueItem
		if err := database.DB.Order("modelo ASC").Find(&itens).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar o estoque")
		}

		f := excelize.NewFile()
		defer f.Close()

		const sheet = "Estoque"
		f.SetSheetName("Sheet1", sheet)
		f.SetCellValue(sheet, "A1", "Modelo")
		f.SetCellValue(sheet, "B1", "Quantidade")

		for i, item := range itens {
			row := i + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.Modelo)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Quantidade)
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar a planilha")
		}

		filename := fmt.Sprintf("estoque_%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}
