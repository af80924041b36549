// Package qrcode сохраняет PNG с QR-кодами платежей на диск
package qrcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

var (
	ErrEncode   = errors.New("qrcode: failed to encode")
	ErrWrite    = errors.New("qrcode: failed to write file")
	ErrNotFound = errors.New("qrcode: file not found")
)

// Generator пишет QR-коды в dir и отдает ссылки вида publicPrefix/<file>
type Generator struct {
	dir          string
	publicPrefix string
	size         int
}

// NewGenerator создает генератор, при необходимости создавая каталог
func NewGenerator(dir, publicPrefix string, size int) (*Generator, error) {
	if size <= 0 {
		size = defaultSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir %s: %v", ErrWrite, dir, err)
	}
	return &Generator{
		dir:          dir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
		size:         size,
	}, nil
}

// Generate кодирует payload в PNG и возвращает публичную ссылку.
// Для одного и того же payload результат одинаков.
func (g *Generator) Generate(ctx context.Context, payload, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	png, err := goqrcode.Encode(payload, goqrcode.Medium, g.size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}

	name := filepath.Base(fileName)
	tmp := filepath.Join(g.dir, "."+name+".tmp")
	if err := os.WriteFile(tmp, png, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmp, filepath.Join(g.dir, name)); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return path.Join(g.publicPrefix, name), nil
}

// Load читает PNG по ссылке, выданной Generate
func (g *Generator) Load(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, ok := safeName(url)
	if !ok {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(g.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("qrcode: read %s: %w", name, err)
	}

	return data, nil
}

// Remove удаляет PNG по ссылке, выданной Generate. Отсутствующий файл не ошибка.
func (g *Generator) Remove(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, ok := safeName(url)
	if !ok {
		return nil
	}

	err := os.Remove(filepath.Join(g.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("qrcode: remove %s: %w", name, err)
	}
	return nil
}

// safeName достает имя файла из ссылки, не выпуская его за пределы каталога
func safeName(url string) (string, bool) {
	name := path.Base(url)
	if name == "." || name == "/" || strings.HasPrefix(name, ".") {
		return "", false
	}
	return name, true
}
