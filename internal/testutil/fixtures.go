// internal/testutil/fixtures.go
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Fixture data para tests (valores primitivos solamente, sin dependencias de domain)

// FixturePassword es el password "correcto" usado por los oráculos falsos.
const FixturePassword = "Summer2023!"

// FixtureCandidates contiene una lista pequeña de candidatos que incluye FixturePassword.
var FixtureCandidates = []string{
	"admin",
	FixturePassword,
	"password123",
}

// FixtureMisses contiene candidatos que nunca hacen match.
var FixtureMisses = []string{"a", "b", "c"}

// Magic bytes de los formatos soportados.
var (
	FixtureRarMagic = []byte("Rar!\x1a\x07\x01\x00")
	FixtureZipMagic = []byte("PK\x03\x04")
	Fixture7zMagic  = []byte("7z\xbc\xaf\x27\x1c")
)

// FixtureCandidateRange genera n candidatos distintos "cand-0000".."cand-<n-1>".
// El ancho mínimo es 4 dígitos; a partir de 10000 crece sin truncar.
func FixtureCandidateRange(n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = fmt.Sprintf("cand-%04d", i)
	}
	return out
}

// WriteFile escribe content en dir/name y retorna la ruta.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// WriteWordlist escribe una wordlist (una línea por candidato).
func WriteWordlist(t *testing.T, dir string, lines []string) string {
	t.Helper()
	return WriteFile(t, dir, "wordlist.txt", []byte(strings.Join(lines, "\n")+"\n"))
}

// WriteScript escribe un script ejecutable (usado para simular unrar/7z).
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}
	return path
}
