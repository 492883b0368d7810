package statstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func fullSample(value func(i int) any) []any {
	sample := make([]any, 101)
	for i := range sample {
		sample[i] = value(i)
	}
	return sample
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SetClassCount("Animal", 1000))
	require.NoError(t, store.Close())

	// Reopening applies the schema again without clobbering data.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	count, ok := store.ClassCount("Animal")
	assert.True(t, ok)
	assert.Equal(t, int64(1000), count)
}

func TestClassCount_Roundtrip(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SetClassCount("Animal", 1000))

	count, ok := store.ClassCount("Animal")
	assert.True(t, ok)
	assert.Equal(t, int64(1000), count)

	_, ok = store.ClassCount("Species")
	assert.False(t, ok)
}

func TestSetClassCount_Upserts(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SetClassCount("Animal", 1000))
	require.NoError(t, store.SetClassCount("Animal", 2000))

	count, ok := store.ClassCount("Animal")
	assert.True(t, ok)
	assert.Equal(t, int64(2000), count)
}

func TestSetClassCount_RejectsNegative(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.SetClassCount("Animal", -1))
}

func TestPutQuantiles_IntRoundtrip(t *testing.T) {
	store := openTestStore(t)
	sample := fullSample(func(i int) any { return int64(i * 3) })

	require.NoError(t, store.PutQuantiles("Species", "limbs", sample))

	got, ok := store.FieldQuantiles("Species", "limbs")
	require.True(t, ok)
	assert.Equal(t, sample, got)
}

func TestPutQuantiles_TimestampRoundtrip(t *testing.T) {
	store := openTestStore(t)
	sample := fullSample(func(i int) any {
		return time.Date(2000+i, time.March, 15, 6, 30, 0, 0, time.UTC)
	})

	require.NoError(t, store.PutQuantiles("BirthEvent", "event_date", sample))

	got, ok := store.FieldQuantiles("BirthEvent", "event_date")
	require.True(t, ok)
	require.Len(t, got, 101)
	for i, value := range got {
		ts, isTime := value.(time.Time)
		require.True(t, isTime, "value %d is %T", i, value)
		assert.True(t, sample[i].(time.Time).Equal(ts))
	}
}

func TestPutQuantiles_StringRoundtrip(t *testing.T) {
	store := openTestStore(t)
	sample := fullSample(func(i int) any { return string(rune('a' + i%26)) })

	require.NoError(t, store.PutQuantiles("Animal", "name", sample))

	got, ok := store.FieldQuantiles("Animal", "name")
	require.True(t, ok)
	assert.Equal(t, sample, got)
}

func TestPutQuantiles_RejectsShortSample(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.PutQuantiles("Species", "limbs", []any{int64(1)}))
}

func TestPutQuantiles_RejectsUnsupportedValue(t *testing.T) {
	store := openTestStore(t)
	sample := fullSample(func(i int) any { return int64(i) })
	sample[50] = 3.14

	err := store.PutQuantiles("Species", "limbs", sample)
	assert.Error(t, err)

	// The failed import leaves nothing behind.
	_, ok := store.FieldQuantiles("Species", "limbs")
	assert.False(t, ok)
}

func TestPutQuantiles_ReplacesPriorSample(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.PutQuantiles("Species", "limbs", fullSample(func(i int) any { return int64(i) })))
	replacement := fullSample(func(i int) any { return int64(i * 10) })
	require.NoError(t, store.PutQuantiles("Species", "limbs", replacement))

	got, ok := store.FieldQuantiles("Species", "limbs")
	require.True(t, ok)
	assert.Equal(t, replacement, got)
}

func TestFieldQuantiles_MissingField(t *testing.T) {
	store := openTestStore(t)
	_, ok := store.FieldQuantiles("Species", "limbs")
	assert.False(t, ok)
}

func TestListClassCounts(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SetClassCount("Animal", 1000))
	require.NoError(t, store.SetClassCount("Species", 12))

	counts, err := store.ListClassCounts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Animal": 1000, "Species": 12}, counts)
}

func TestListQuantileFields(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.PutQuantiles("Species", "limbs", fullSample(func(i int) any { return int64(i) })))

	fields, err := store.ListQuantileFields()
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, QuantileField{VertexType: "Species", FieldName: "limbs", Percentiles: 101}, fields[0])
}
