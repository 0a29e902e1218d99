package automacao

import (
	"fmt"
	"io"
	"strings"

	"estoque-backend/internal/config"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"
)

// Anexo: um PDF de pedido baixado de um e-mail ainda não processado.
type Anexo struct {
	MessageID string // id opaco do e-mail de origem (cabeçalho Message-Id)
	Filename  string
	Data      []byte
}

// BuscarNovosAnexos conecta na caixa IMAP, seleciona os e-mails não lidos
// (com filtro opcional de assunto), baixa os anexos PDF cujo nome contém a
// palavra marcadora e marca cada e-mail como lido. E-mails já presentes no
// ProcessedSet são pulados ANTES de qualquer efeito colateral; os novos são
// adicionados ao conjunto (o chamador persiste ao fim do ciclo).
func BuscarNovosAnexos(cfg *config.Config, processed *ProcessedSet, log *zap.Logger) ([]Anexo, error) {
	c, err := client.DialTLS(cfg.IMAPServer, nil)
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	if err := c.Login(cfg.IMAPUser, cfg.IMAPPassword); err != nil {
		return nil, err
	}
	log.Info("login IMAP bem-sucedido", zap.String("server", cfg.IMAPServer))

	if _, err := c.Select("INBOX", false); err != nil {
		return nil, err
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	if cfg.SubjectFilter != "" {
		criteria.Header.Add("Subject", cfg.SubjectFilter)
	}

	seqNums, err := c.Search(criteria)
	if err != nil {
		return nil, err
	}
	log.Info("emails não lidos encontrados", zap.Int("total", len(seqNums)))
	if len(seqNums) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNums...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	ch := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, ch)
	}()

	var anexos []Anexo
	var lidos []uint32

	for msg := range ch {
		msgID := sourceID(msg)
		if processed.Contains(msgID) {
			log.Info("email já processado, pulando", zap.String("message_id", msgID))
			continue
		}
		subject := ""
		if msg.Envelope != nil {
			subject = msg.Envelope.Subject
		}
		log.Info("processando email",
			zap.String("message_id", msgID),
			zap.String("subject", subject))

		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		extraidos := extrairAnexosPDF(body, msgID, cfg.AttachmentMarker, log)
		anexos = append(anexos, extraidos...)

		lidos = append(lidos, msg.SeqNum)
		processed.Add(msgID)
	}

	if err := <-done; err != nil {
		return anexos, err
	}

	// Marca os emails processados como lidos na caixa remota.
	if len(lidos) > 0 {
		seen := new(imap.SeqSet)
		seen.AddNum(lidos...)
		op := imap.FormatFlagsOp(imap.AddFlags, true)
		if err := c.Store(seen, op, []interface{}{imap.SeenFlag}, nil); err != nil {
			log.Error("não foi possível marcar emails como lidos", zap.Error(err))
		}
	}

	return anexos, nil
}

// sourceID: identificador durável do e-mail para a de-duplicação. Quando o
// cabeçalho Message-Id falta, o UID da caixa serve de id — sem isso a mensagem
// seria re-visitada e re-pulada em todo ciclo, para sempre.
func sourceID(msg *imap.Message) string {
	if msg.Envelope != nil && msg.Envelope.MessageId != "" {
		return msg.Envelope.MessageId
	}
	return fmt.Sprintf("uid-%d", msg.Uid)
}

// extrairAnexosPDF percorre as partes MIME da mensagem e recolhe os anexos
// cujo nome (minúsculo) contém a palavra marcadora e termina em .pdf.
func extrairAnexosPDF(r io.Reader, msgID, marker string, log *zap.Logger) []Anexo {
	mr, err := mail.CreateReader(r)
	if err != nil {
		log.Error("não foi possível ler a mensagem", zap.String("message_id", msgID), zap.Error(err))
		return nil
	}

	var anexos []Anexo
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Error("erro ao percorrer as partes da mensagem", zap.String("message_id", msgID), zap.Error(err))
			break
		}

		h, ok := p.Header.(*mail.AttachmentHeader)
		if !ok {
			continue
		}
		filename, err := h.Filename()
		if err != nil || filename == "" {
			continue
		}

		lower := strings.ToLower(filename)
		if !strings.HasSuffix(lower, ".pdf") || !strings.Contains(lower, strings.ToLower(marker)) {
			log.Info("anexo ignorado (não é PDF de pedido)",
				zap.String("message_id", msgID), zap.String("filename", filename))
			continue
		}

		data, err := io.ReadAll(p.Body)
		if err != nil {
			log.Error("não foi possível baixar o anexo",
				zap.String("message_id", msgID), zap.String("filename", filename), zap.Error(err))
			continue
		}

		log.Info("PDF de pedido baixado",
			zap.String("message_id", msgID), zap.String("filename", filename), zap.Int("bytes", len(data)))
		anexos = append(anexos, Anexo{MessageID: msgID, Filename: filename, Data: data})
	}
	return anexos
}
