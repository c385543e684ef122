package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"sepri/internal/domain"
)

type backend struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	endpoint := strings.TrimPrefix(r.URL.Path, "/api/")
	switch {
	case endpoint == "chat":
		_, _ = w.Write([]byte(`{"reply":"Llama a la línea 123."}`))
	case r.Method == http.MethodGet:
		body, ok := b.blobs[endpoint]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	case r.Method == http.MethodPost:
		if r.Header.Get("Authorization") == "" {
			http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		b.blobs[endpoint] = body
		_, _ = w.Write([]byte(`{"success":true}`))
	}
}

type CLITestSuite struct {
	suite.Suite
	dir     string
	backend *backend
	srv     *httptest.Server
}

func (s *CLITestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.backend = &backend{blobs: map[string][]byte{}}
	s.srv = httptest.NewServer(s.backend)

	cfg := `
log_level: error
remote:
  base_url: ` + s.srv.URL + `
  retry:
    max_attempts: 1
local:
  path: ` + filepath.Join(s.dir, "sepri.db") + `
auth:
  token_secret: a-test-secret-of-enough-length
  bcrypt_cost: 4
  admin:
    email: admin@example.org
    password: admin-pw
  creator:
    email: creator@example.org
    password: creator-pw
`
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, "config.yaml"), []byte(cfg), 0o600))
}

func (s *CLITestSuite) TearDownTest() {
	s.srv.Close()
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (s *CLITestSuite) run(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(s.dir, "config.yaml")}, args...))

	err := rootCmd.Execute()
	if current != nil {
		_ = current.Close()
		current = nil
	}
	return out.String(), err
}

func (s *CLITestSuite) writeFile(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *CLITestSuite) TestNewsFallsBackToDefaults() {
	out, err := s.run("news")
	s.Require().NoError(err)
	s.Contains(out, "Actualización de Protocolos 2025")
}

func (s *CLITestSuite) TestContactListsEmergencyLines() {
	out, err := s.run("contact")
	s.Require().NoError(err)
	s.Contains(out, "Coordinador: Juan Felipe Vera Gómez (3233589608)")
	s.Contains(out, "Líneas de emergencia:")
	s.Regexp(`Policía Nacional\s+123`, out)
	s.Regexp(`Defensa Civil\s+144`, out)
}

func (s *CLITestSuite) TestPrivacy() {
	out, err := s.run("privacy")
	s.Require().NoError(err)
	s.Contains(out, "protección de sus datos personales")
}

func (s *CLITestSuite) TestChecklistMarksTriggeredSteps() {
	out, err := s.run("checklist", "campamentos", "--yes", "has-food")
	s.Require().NoError(err)
	s.Contains(out, "+ 4. Curso de Manipulación")
	s.Contains(out, "  1. Autorización Directivos (2 Meses antes)")
}

func (s *CLITestSuite) TestUnknownProtocol() {
	_, err := s.run("protocol", "show", "nope")
	s.Require().Error(err)
	s.Contains(err.Error(), "sepri protocols")
}

func (s *CLITestSuite) TestMissingStepIsNotReportedAsMissingProtocol() {
	_, err := s.run("login", "--email", "admin@example.org", "--password", "admin-pw")
	s.Require().NoError(err)

	_, err = s.run("protocol", "step", "campamentos", "--remove", "nope")
	s.Require().Error(err)
	s.Contains(err.Error(), "step nope: not found")
	s.NotContains(err.Error(), "sepri protocols")

	_, err = s.run("protocol", "step", "nope", "--remove", "x")
	s.Require().Error(err)
	s.Contains(err.Error(), "sepri protocols")
}

func (s *CLITestSuite) TestEditingRequiresLogin() {
	file := s.writeFile("protocol.yaml", "title: Bautismos\ndescription: Bautizos en ríos y piscinas.\n")

	_, err := s.run("protocol", "add", "-f", file)
	s.Require().Error(err)
	s.Contains(err.Error(), "log in")
}

func (s *CLITestSuite) TestLoginAndAddProtocol() {
	out, err := s.run("login", "--email", "Admin@Example.org ", "--password", "admin-pw")
	s.Require().NoError(err)
	s.Contains(out, "logged in as admin@example.org (ADMIN)")

	file := s.writeFile("protocol.yaml", `
id: bautismos
title: Bautismos
description: Bautizos en ríos y piscinas.
iconName: Shield
baseSteps:
  - id: salvavidas
    title: Salvavidas certificado
`)
	out, err = s.run("protocol", "add", "-f", file)
	s.Require().NoError(err)
	s.Contains(out, "protocol bautismos added")

	var stored []domain.Protocol
	s.Require().NoError(json.Unmarshal(s.backend.blobs["events"], &stored))
	s.Require().Len(stored, 4)
	s.Equal("bautismos", stored[3].ID)
	s.Equal(domain.IconShield, stored[3].IconName)

	// The creator role alone may reset passwords.
	_, err = s.run("users", "reset-password", "user-creator")
	s.Require().Error(err)

	out, err = s.run("logout")
	s.Require().NoError(err)
	s.Contains(out, "logged out")

	out, err = s.run("whoami")
	s.Require().NoError(err)
	s.Contains(out, "visitor")
}

func (s *CLITestSuite) TestResetPasswordAsCreator() {
	_, err := s.run("login", "--email", "creator@example.org", "--password", "creator-pw")
	s.Require().NoError(err)

	out, err := s.run("users", "reset-password", "user-admin")
	s.Require().NoError(err)
	s.Contains(out, "new password for user-admin: ")

	password := strings.TrimSpace(strings.SplitN(strings.TrimPrefix(out, "new password for user-admin: "), "\n", 2)[0])
	s.Len(password, 12)

	_, err = s.run("login", "--email", "admin@example.org", "--password", "admin-pw")
	s.Require().Error(err)
	s.Equal("incorrect email or password", err.Error())

	_, err = s.run("login", "--email", "admin@example.org", "--password", password)
	s.NoError(err)
}

func (s *CLITestSuite) TestRenderForm() {
	out, err := s.run("forms", "render", "form-reporte-incidente",
		"--set", "f1=Ana Ruiz", "--set", "f2=Caída leve", "--set", "f3=no",
		"--dir", s.dir)
	s.Require().NoError(err)

	body, err := os.ReadFile(filepath.Join(s.dir, "Reporte_de_Novedades.txt"))
	s.Require().NoError(err)
	s.Contains(string(body), "EVENTO: Campamentos y Retiros")
	s.Contains(out, "saved to")
}

func (s *CLITestSuite) TestAsk() {
	out, err := s.run("ask", "¿Qué hago", "ante", "un", "accidente?")
	s.Require().NoError(err)
	s.Equal("Llama a la línea 123.\n", out)
}

func TestParseAnswers(t *testing.T) {
	answers := parseAnswers([]string{"a", "b"}, []string{"b", "c"})
	assert.Equal(t, domain.Answers{"a": true, "b": true, "c": false}, answers)
}

func TestParseSet(t *testing.T) {
	responses, err := parseSet([]string{"f1=Ana", "f2=a=b", "f3="})
	require.NoError(t, err)
	assert.Equal(t, "Ana", responses["f1"])
	assert.Equal(t, "a=b", responses["f2"])
	assert.Equal(t, "", responses["f3"])

	_, err = parseSet([]string{"missing-separator"})
	assert.Error(t, err)
}

func TestDecodeYAMLFileUsesWireKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: Botiquín\nisDownloadable: true\ndownloadUrl: https://example.org/b.pdf\n"), 0o600))

	var step domain.Step
	require.NoError(t, decodeYAMLFile(path, &step))
	assert.Equal(t, "Botiquín", step.Title)
	assert.True(t, step.IsDownloadable)
	assert.Equal(t, "https://example.org/b.pdf", step.DownloadURL)
}
