package automacao

import (
	"bytes"
	"testing"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mensagemComAnexos(t *testing.T, anexos map[string][]byte) *bytes.Buffer {
	t.Helper()

	var b bytes.Buffer
	var h mail.Header
	h.SetSubject("Pedido de compra")

	mw, err := mail.CreateWriter(&b, h)
	require.NoError(t, err)

	var ih mail.InlineHeader
	ih.SetContentType("text/plain", nil)
	tw, err := mw.CreateSingleInline(ih)
	require.NoError(t, err)
	_, err = tw.Write([]byte("Segue o pedido em anexo."))
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	for nome, data := range anexos {
		var ah mail.AttachmentHeader
		ah.SetFilename(nome)
		aw, err := mw.CreateAttachment(ah)
		require.NoError(t, err)
		_, err = aw.Write(data)
		require.NoError(t, err)
		require.NoError(t, aw.Close())
	}
	require.NoError(t, mw.Close())

	return &b
}

func TestExtrairAnexosPDFFiltraPorMarcadorEExtensao(t *testing.T) {
	conteudo := []byte("%PDF-1.4 conteudo do pedido")

	// Só PDFs cujo nome contém o marcador passam; a comparação ignora caixa.
	msg := mensagemComAnexos(t, map[string][]byte{
		"PEDIDO_123.PDF": conteudo,
		"foto.jpg":       []byte("nao-e-pdf"),
		"nota.pdf":       []byte("%PDF sem marcador"),
	})

	anexos := extrairAnexosPDF(msg, "<m1@mail>", "pedido", zap.NewNop())

	require.Len(t, anexos, 1)
	assert.Equal(t, "PEDIDO_123.PDF", anexos[0].Filename)
	assert.Equal(t, "<m1@mail>", anexos[0].MessageID)
	assert.Equal(t, conteudo, anexos[0].Data)
}

func TestExtrairAnexosPDFMensagemSemAnexo(t *testing.T) {
	msg := mensagemComAnexos(t, nil)

	assert.Empty(t, extrairAnexosPDF(msg, "<m2@mail>", "pedido", zap.NewNop()))
}

func TestSourceIDUsaUIDQuandoMessageIdFalta(t *testing.T) {
	com := &imap.Message{Uid: 7, Envelope: &imap.Envelope{MessageId: "<m1@mail>"}}
	assert.Equal(t, "<m1@mail>", sourceID(com))

	sem := &imap.Message{Uid: 42, Envelope: &imap.Envelope{}}
	assert.Equal(t, "uid-42", sourceID(sem))

	assert.Equal(t, "uid-9", sourceID(&imap.Message{Uid: 9}))
}
