package store

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chzchzchz/waterfall/radio"
	"github.com/chzchzchz/waterfall/spectrogram"
)

var ErrCorrupt = errors.New("corrupt grid record")

// GridRecord is a finished spectrogram and enough context to redraw it.
type GridRecord struct {
	Band      radio.HzBand
	Window    int
	Stride    float64
	GlobalMax float64
	Bins      int
	Rows      int
	Data      []float64
	Date      time.Time
}

func NewGridRecord(res spectrogram.Result, band radio.HzBand, stride float64) *GridRecord {
	return &GridRecord{
		Band:      band,
		Window:    res.Grid.Bins,
		Stride:    stride,
		GlobalMax: res.GlobalMax,
		Bins:      res.Grid.Bins,
		Rows:      res.Grid.Rows,
		Data:      res.Grid.Data,
		Date:      time.Now(),
	}
}

// Grid shares the record's data.
func (rec *GridRecord) Grid() *spectrogram.Grid {
	return &spectrogram.Grid{Bins: rec.Bins, Rows: rec.Rows, Data: rec.Data}
}

func Save(fpath string, rec *GridRecord) error {
	f, err := os.OpenFile(fpath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(rec); err != nil {
		return err
	}
	return f.Close()
}

func Load(fpath string) (*GridRecord, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rec := &GridRecord{}
	if err := gob.NewDecoder(f).Decode(rec); err != nil {
		return nil, fmt.Errorf("%s: %w", fpath, err)
	}
	if rec.Bins <= 0 || rec.Rows <= 0 || len(rec.Data) != rec.Bins*rec.Rows {
		return nil, fmt.Errorf("%w: %s (%dx%d, %d cells)", ErrCorrupt, fpath, rec.Bins, rec.Rows, len(rec.Data))
	}
	return rec, nil
}
