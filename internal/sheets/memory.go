package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBackend is an in-process Backend holding sheets as string grids.
type MemoryBackend struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sheets: make(map[string][][]string)}
}

// Seed replaces the content of a sheet. The first row is the header.
func (m *MemoryBackend) Seed(sheet string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet] = copyRows(rows)
}

// Rows returns a copy of a sheet's content.
func (m *MemoryBackend) Rows(sheet string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyRows(m.sheets[sheet])
}

func (m *MemoryBackend) ReadAll(ctx context.Context, sheet string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("read sheet %s: unable to parse range", sheet)
	}
	return copyRows(rows), nil
}

func (m *MemoryBackend) UpdateCells(ctx context.Context, sheet string, row int, cells map[int]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("update sheet %s: unable to parse range", sheet)
	}
	if row < 1 {
		return fmt.Errorf("update sheet %s: invalid row %d", sheet, row)
	}
	for len(rows) < row {
		rows = append(rows, nil)
	}
	target := rows[row-1]
	for column, value := range cells {
		for len(target) <= column {
			target = append(target, "")
		}
		target[column] = value
	}
	rows[row-1] = target
	m.sheets[sheet] = rows
	return nil
}

func (m *MemoryBackend) Append(ctx context.Context, sheet string, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("append to sheet %s: unable to parse range", sheet)
	}
	row := make([]string, len(values))
	copy(row, values)
	m.sheets[sheet] = append(rows, row)
	return nil
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
