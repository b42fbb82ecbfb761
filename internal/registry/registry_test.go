package registry

import (
	"context"
	"errors"
	"testing"

	"addressjp-api/internal/masterdata"
	"addressjp-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLoader is a mock implementation of the Loader interface
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context, key string) ([]masterdata.Record, error) {
	args := m.Called(ctx, key)
	records, _ := args.Get(0).([]masterdata.Record)
	return records, args.Error(1)
}

func intPtr(i int) *int { return &i }

func cityRecords() []masterdata.Record {
	return []masterdata.Record{
		{"id": 13114, "name": "中野区", "prefecture_id": 13},
		{"id": 13206, "name": "府中市", "prefecture_id": 13},
		{"id": 34208, "name": "府中市", "prefecture_id": 34},
		{"id": 34100, "name": "広島市", "prefecture_id": "34"},
	}
}

func TestFromRecords_Coercion(t *testing.T) {
	tests := []struct {
		name     string
		cfg      KindConfig
		record   masterdata.Record
		expected models.Division
	}{
		{
			name:     "integer fields",
			cfg:      Cities,
			record:   masterdata.Record{"id": 13114, "name": "中野区", "prefecture_id": 13},
			expected: models.Division{ID: 13114, Name: "中野区", ParentID: intPtr(13), Kind: models.KindCity},
		},
		{
			name:     "string fields",
			cfg:      Cities,
			record:   masterdata.Record{"id": "13114", "name": "中野区", "prefecture_id": " 13 "},
			expected: models.Division{ID: 13114, Name: "中野区", ParentID: intPtr(13), Kind: models.KindCity},
		},
		{
			name:     "json numbers",
			cfg:      Cities,
			record:   masterdata.Record{"id": float64(13114), "name": "中野区", "prefecture_id": float64(13)},
			expected: models.Division{ID: 13114, Name: "中野区", ParentID: intPtr(13), Kind: models.KindCity},
		},
		{
			name:     "generic parent field",
			cfg:      Cities,
			record:   masterdata.Record{"id": int32(13114), "name": "中野区", "parent_id": int64(13)},
			expected: models.Division{ID: 13114, Name: "中野区", ParentID: intPtr(13), Kind: models.KindCity},
		},
		{
			name:     "zero padded code",
			cfg:      Prefectures,
			record:   masterdata.Record{"id": "08", "name": "茨城県"},
			expected: models.Division{ID: 8, Name: "茨城県", Kind: models.KindPrefecture},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := FromRecords(tt.cfg, []masterdata.Record{tt.record})

			require.NoError(t, err)
			assert.Equal(t, []models.Division{tt.expected}, r.All())
		})
	}
}

func TestFromRecords_InvalidRecord(t *testing.T) {
	tests := []struct {
		name   string
		cfg    KindConfig
		record masterdata.Record
		field  string
	}{
		{"missing id", Prefectures, masterdata.Record{"name": "東京都"}, "id"},
		{"null id", Prefectures, masterdata.Record{"id": nil, "name": "東京都"}, "id"},
		{"non numeric id", Prefectures, masterdata.Record{"id": "tokyo", "name": "東京都"}, "id"},
		{"fractional id", Prefectures, masterdata.Record{"id": 13.5, "name": "東京都"}, "id"},
		{"boolean id", Prefectures, masterdata.Record{"id": true, "name": "東京都"}, "id"},
		{"empty name", Prefectures, masterdata.Record{"id": 13, "name": " "}, "name"},
		{"missing parent", Cities, masterdata.Record{"id": 13114, "name": "中野区"}, "prefecture_id"},
		{"non numeric parent", Cities, masterdata.Record{"id": 13114, "name": "中野区", "prefecture_id": "x"}, "prefecture_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []masterdata.Record{
				{"id": 1, "name": "北海道", "prefecture_id": 1},
				tt.record,
			}

			_, err := FromRecords(tt.cfg, records)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRecord))
			var recErr *InvalidRecordError
			require.True(t, errors.As(err, &recErr))
			assert.Equal(t, 1, recErr.Index)
			assert.Equal(t, tt.field, recErr.Field)
			assert.Equal(t, tt.cfg.Kind, recErr.Kind)
		})
	}
}

func TestFromRecords_DuplicateID(t *testing.T) {
	_, err := FromRecords(Prefectures, []masterdata.Record{
		{"id": 13, "name": "東京都"},
		{"id": 13, "name": "東京府"},
	})

	assert.True(t, errors.Is(err, ErrInvalidRecord))
}

func TestRegistry_Lookups(t *testing.T) {
	r, err := FromRecords(Cities, cityRecords())
	require.NoError(t, err)

	t.Run("all keeps source order", func(t *testing.T) {
		ids := make([]int, 0, r.Len())
		for _, d := range r.All() {
			ids = append(ids, d.ID)
		}
		assert.Equal(t, []int{13114, 13206, 34208, 34100}, ids)
	})

	t.Run("find by id", func(t *testing.T) {
		d, ok := r.FindByID(34100)
		require.True(t, ok)
		assert.Equal(t, "広島市", d.Name)

		_, ok = r.FindByID(99999)
		assert.False(t, ok)
	})

	t.Run("find by name unscoped returns every match", func(t *testing.T) {
		found := r.FindByName("府中市", nil)
		require.Len(t, found, 2)
		assert.Equal(t, 13206, found[0].ID)
		assert.Equal(t, 34208, found[1].ID)
	})

	t.Run("find by name scoped filters by parent", func(t *testing.T) {
		found := r.FindByName("府中市", intPtr(34))
		require.Len(t, found, 1)
		assert.Equal(t, 34208, found[0].ID)
		assert.True(t, found[0].HasParent(34))

		assert.Empty(t, r.FindByName("府中市", intPtr(27)))
		assert.Empty(t, r.FindByName("存在しない市", nil))
	})

	t.Run("children", func(t *testing.T) {
		children := r.Children(13)
		require.Len(t, children, 2)
		assert.Equal(t, "中野区", children[0].Name)
		assert.Equal(t, "府中市", children[1].Name)
	})
}

func TestRegistry_NamePatternPrefersLongestName(t *testing.T) {
	r, err := FromRecords(Cities, []masterdata.Record{
		{"id": 1, "name": "Naka", "prefecture_id": 14},
		{"id": 2, "name": "Nakano", "prefecture_id": 13},
		{"id": 3, "name": "中", "prefecture_id": 23},
		{"id": 4, "name": "中野区", "prefecture_id": 13},
		{"id": 5, "name": "a.c", "prefecture_id": 1},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Nakano", "Naka", "中野区", "a.c", "中"}, r.Names())

	pattern := r.NamePattern()
	require.NotNil(t, pattern)
	assert.Equal(t, "Nakano", pattern.FindString("Nakano-ku"))
	assert.Equal(t, "Naka", pattern.FindString("Naka-ku"))
	assert.Equal(t, "中野区", pattern.FindString("東京都中野区中央"))
	assert.Equal(t, "", pattern.FindString("abc"), "names are matched literally")
}

func TestRegistry_EmptyHasNoPattern(t *testing.T) {
	r, err := FromRecords(Counties, nil)
	require.NoError(t, err)

	assert.Nil(t, r.NamePattern())
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.All())
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		cfg         KindConfig
		mockRecords []masterdata.Record
		mockError   error
		expectedLen int
		expectError bool
	}{
		{
			name:        "loads records",
			cfg:         Cities,
			mockRecords: cityRecords(),
			expectedLen: 4,
		},
		{
			name:        "missing optional kind is empty",
			cfg:         Counties,
			mockError:   &masterdata.DataSourceError{Key: "counties", Err: masterdata.ErrNotFound},
			expectedLen: 0,
		},
		{
			name:        "missing required kind fails",
			cfg:         Cities,
			mockError:   &masterdata.DataSourceError{Key: "cities", Err: masterdata.ErrNotFound},
			expectError: true,
		},
		{
			name:        "broken optional kind fails",
			cfg:         Towns,
			mockError:   &masterdata.DataSourceError{Key: "towns", Err: assert.AnError},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			loader := new(MockLoader)
			loader.On("Load", mock.Anything, tt.cfg.DataSourceKey).Return(tt.mockRecords, tt.mockError)

			// Execute
			r, err := New(context.Background(), loader, tt.cfg)

			// Assert
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, masterdata.ErrDataSource))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedLen, r.Len())
				assert.Equal(t, tt.cfg.Kind, r.Kind())
			}
			loader.AssertExpectations(t)
		})
	}
}
