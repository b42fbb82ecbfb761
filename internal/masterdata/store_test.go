package masterdata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSource is a mock implementation of the Source interface
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Load(ctx context.Context, key string) ([]Record, error) {
	args := m.Called(ctx, key)
	records, _ := args.Get(0).([]Record)
	return records, args.Error(1)
}

// countingSource counts loads per key without any synchronization of its own.
type countingSource struct {
	calls   atomic.Int32
	records []Record
}

func (s *countingSource) Load(_ context.Context, _ string) ([]Record, error) {
	s.calls.Add(1)
	return s.records, nil
}

func TestStore_Load(t *testing.T) {
	prefectures := []Record{{"id": 13, "name": "東京都"}}

	tests := []struct {
		name        string
		mockRecords []Record
		mockError   error
		expected    []Record
		expectError bool
	}{
		{
			name:        "loads records",
			mockRecords: prefectures,
			expected:    prefectures,
		},
		{
			name:        "source error",
			mockError:   assert.AnError,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSrc := new(MockSource)
			mockSrc.On("Load", mock.Anything, "prefectures").Return(tt.mockRecords, tt.mockError).Once()
			store := NewStore(mockSrc, zerolog.Nop(), nil)

			// Execute twice; the source must only be read once
			first, err1 := store.Load(context.Background(), "prefectures")
			second, err2 := store.Load(context.Background(), "prefectures")

			// Assert
			if tt.expectError {
				require.Error(t, err1)
				assert.Equal(t, err1, err2)
				assert.True(t, errors.Is(err1, ErrDataSource))
				assert.True(t, errors.Is(err1, assert.AnError))

				var dsErr *DataSourceError
				require.True(t, errors.As(err1, &dsErr))
				assert.Equal(t, "prefectures", dsErr.Key)
			} else {
				require.NoError(t, err1)
				require.NoError(t, err2)
				assert.Equal(t, tt.expected, first)
				assert.Equal(t, tt.expected, second)
			}

			mockSrc.AssertExpectations(t)
			mockSrc.AssertNumberOfCalls(t, "Load", 1)
		})
	}
}

func TestStore_LoadKeysIndependently(t *testing.T) {
	mockSrc := new(MockSource)
	mockSrc.On("Load", mock.Anything, "prefectures").Return([]Record{{"id": 1, "name": "北海道"}}, nil).Once()
	mockSrc.On("Load", mock.Anything, "cities").Return(nil, assert.AnError).Once()
	store := NewStore(mockSrc, zerolog.Nop(), nil)

	_, err := store.Load(context.Background(), "cities")
	assert.Error(t, err)

	records, err := store.Load(context.Background(), "prefectures")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	mockSrc.AssertExpectations(t)
}

func TestStore_ConcurrentFirstAccessLoadsOnce(t *testing.T) {
	src := &countingSource{records: []Record{{"id": 13, "name": "東京都"}}}
	store := NewStore(src, zerolog.Nop(), nil)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := store.Load(context.Background(), "prefectures")
			assert.NoError(t, err)
			assert.Len(t, records, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
}
