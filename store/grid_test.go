package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chzchzchz/waterfall/radio"
	"github.com/chzchzchz/waterfall/spectrogram"
)

func TestSaveLoad(t *testing.T) {
	g := spectrogram.NewGrid(4, 2)
	copy(g.Data, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	res := spectrogram.Result{GlobalMax: 8, Grid: g, Tasks: 2}
	band := radio.HzBand{Center: 162400000, Width: 240000}
	path := filepath.Join(t.TempDir(), "wx.grid")

	require.NoError(t, Save(path, NewGridRecord(res, band, 0.5)))
	rec, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, band, rec.Band)
	require.Equal(t, 4, rec.Window)
	require.Equal(t, 0.5, rec.Stride)
	require.Equal(t, 8.0, rec.GlobalMax)
	require.Equal(t, g.Data, rec.Grid().Data)
	require.Equal(t, 6.0, rec.Grid().At(1, 1))
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.grid")
	require.NoError(t, Save(path, &GridRecord{Bins: 4, Rows: 2, Data: []float64{1}}))
	_, err := Load(path)
	require.ErrorIs(t, err, ErrCorrupt)

	garbage := filepath.Join(dir, "garbage.grid")
	require.NoError(t, os.WriteFile(garbage, []byte("nope"), 0644))
	_, err = Load(garbage)
	require.Error(t, err)
}
