package automacao

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"estoque-backend/internal/config"
	"estoque-backend/internal/parser"

	"go.uber.org/zap"
)

// Driver: laço perpétuo de ingestão — conectar na caixa de e-mail, baixar os
// PDFs de pedido novos, extrair os itens, agrupar por OS e empurrar pedidos
// pendentes para a API. Tudo sequencial e síncrono; falhas de um ciclo são
// registradas e tentadas de novo no ciclo seguinte, nunca derrubam o laço.
type Driver struct {
	cfg       *config.Config
	client    *Client
	processed *ProcessedSet
	grammar   parser.Grammar
	log       *zap.Logger

	buscarAnexos   func(*config.Config, *ProcessedSet, *zap.Logger) ([]Anexo, error)
	extrairPaginas func([]byte) ([]string, error)
}

func NewDriver(cfg *config.Config, log *zap.Logger) (*Driver, error) {
	if err := os.MkdirAll(cfg.PDFFolder, 0o755); err != nil {
		return nil, err
	}

	processed, err := LoadProcessed(cfg.ProcessedFile)
	if err != nil {
		return nil, err
	}
	log.Info("lista de emails processados carregada", zap.Int("total", processed.Len()))

	return &Driver{
		cfg:            cfg,
		client:         NewClient(cfg, log),
		processed:      processed,
		grammar:        parser.DefaultGrammar(),
		log:            log,
		buscarAnexos:   BuscarNovosAnexos,
		extrairPaginas: ExtrairPaginasPDF,
	}, nil
}

// Run roda ciclos até o contexto ser cancelado.
func (d *Driver) Run(ctx context.Context) {
	d.log.Info("automatizador de pedidos iniciado",
		zap.Duration("poll_interval", d.cfg.PollInterval))

	for {
		d.cycle()

		select {
		case <-ctx.Done():
			d.log.Info("automatizador encerrado")
			return
		case <-time.After(d.cfg.PollInterval):
		}
	}
}

func (d *Driver) cycle() {
	d.log.Info("início do ciclo de verificação de pedidos")

	anexos, err := d.buscarAnexos(d.cfg, d.processed, d.log)
	if err != nil {
		// Falha de conexão não termina o laço. O lote parcial já baixado NÃO
		// pode ser descartado: esses ids já entraram no conjunto de
		// processados e não seriam visitados de novo no próximo ciclo.
		d.log.Error("busca de emails interrompida, processando o que já foi baixado",
			zap.Int("anexos", len(anexos)), zap.Error(err))
	}

	if err := d.processed.Save(); err != nil {
		d.log.Error("não foi possível salvar a lista de emails processados", zap.Error(err))
	}

	if len(anexos) == 0 {
		d.log.Info("nenhum novo PDF para processar neste ciclo")
		return
	}
	d.log.Info("novos PDFs baixados neste ciclo", zap.Int("total", len(anexos)))

	pedidos := d.extrair(anexos)
	payloads := AgruparPorOS(pedidos)

	for _, payload := range payloads {
		d.log.Info("enviando pedido para a API",
			zap.String("os_number", payload.OSNumber),
			zap.Int("itens", len(payload.Itens)))
		if err := d.client.CriarPedidoPendente(payload); err != nil {
			d.log.Error("não foi possível criar o pedido pendente",
				zap.String("os_number", payload.OSNumber), zap.Error(err))
		}
	}

	d.log.Info("ciclo de verificação concluído")
}

// extrair salva cada anexo em disco e roda o parser página a página. Um PDF
// malformado é pulado com log, sem abortar o lote.
func (d *Driver) extrair(anexos []Anexo) []parser.Pedido {
	var pedidos []parser.Pedido
	for _, anexo := range anexos {
		destino := filepath.Join(d.cfg.PDFFolder, filepath.Base(anexo.Filename))
		if err := os.WriteFile(destino, anexo.Data, 0o644); err != nil {
			d.log.Error("não foi possível salvar o PDF",
				zap.String("filename", anexo.Filename), zap.Error(err))
		}

		pages, err := d.extrairPaginas(anexo.Data)
		if err != nil {
			d.log.Error("PDF malformado, pulando documento",
				zap.String("filename", anexo.Filename), zap.Error(err))
			continue
		}

		pedido := d.grammar.Parse(pages, anexo.Filename)
		d.log.Info("documento analisado",
			zap.String("filename", anexo.Filename),
			zap.String("os_number", pedido.OSNumber),
			zap.Int("itens", len(pedido.Itens)))
		pedidos = append(pedidos, pedido)
	}
	return pedidos
}

// AgruparPorOS junta os itens de vários documentos na mesma OS em um único
// pedido pendente, preservando a ordem de chegada.
func AgruparPorOS(pedidos []parser.Pedido) []PedidoPendentePayload {
	porOS := map[string]*PedidoPendentePayload{}
	var ordem []string

	for _, pedido := range pedidos {
		if len(pedido.Itens) == 0 {
			continue
		}
		payload, ok := porOS[pedido.OSNumber]
		if !ok {
			payload = &PedidoPendentePayload{
				OSNumber:      pedido.OSNumber,
				CidadeDestino: pedido.CidadeDestino,
				RegistradoPor: "Sistema de Automação",
			}
			porOS[pedido.OSNumber] = payload
			ordem = append(ordem, pedido.OSNumber)
		}
		payload.Itens = append(payload.Itens, pedido.Itens...)
	}

	out := make([]PedidoPendentePayload, 0, len(ordem))
	for _, osNum := range ordem {
		out = append(out, *porOS[osNum])
	}
	return out
}
