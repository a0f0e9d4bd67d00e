package extract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// --- Oracle Mock ---

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
