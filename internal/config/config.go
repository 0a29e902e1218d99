package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Automação (leitura de e-mails de pedido)
	IMAPServer       string // host:porta, ex: imap.gmail.com:993
	IMAPUser         string
	IMAPPassword     string
	SubjectFilter    string // filtro opcional por substring do assunto
	AttachmentMarker string // palavra obrigatória no nome do anexo (ex: "pedido")
	PollInterval     time.Duration
	ProcessedFile    string // lista persistida de e-mails já processados
	PDFFolder        string // pasta onde os PDFs baixados são salvos

	// Credenciais do usuário de automação na própria API
	APIBaseURL         string
	AutomationEmail    string
	AutomationPassword string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=estoque_abc port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		IMAPServer:       getEnv("IMAP_SERVER", "imap.gmail.com:993"),
		IMAPUser:         getEnv("IMAP_USER", ""),
		IMAPPassword:     getEnv("IMAP_PASSWORD", ""),
		SubjectFilter:    getEnv("EMAIL_SUBJECT_FILTER", ""),
		AttachmentMarker: getEnv("ATTACHMENT_MARKER", "pedido"),
		PollInterval:     getEnvDuration("POLL_INTERVAL_SECONDS", 60),
		ProcessedFile:    getEnv("PROCESSED_LIST_FILE", "processed_emails.json"),
		PDFFolder:        getEnv("PDF_FOLDER", "./Pedidos_PDF"),

		APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:8080"),
		AutomationEmail:    getEnv("AUTOMATION_EMAIL", "automacao@example.com"),
		AutomationPassword: getEnv("AUTOMATION_PASSWORD", ""),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] A variável de ambiente JWT_SECRET não está definida! Obrigatória em produção.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET precisa ter pelo menos 32 caracteres! Risco de segurança.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=estoque_abc port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN está com o valor padrão; defina a conexão do seu Postgres em produção.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, defSeconds int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		log.Printf("[WARN] %s inválido (%q), usando padrão de %ds", key, v, defSeconds)
	}
	return time.Duration(defSeconds) * time.Second
}
