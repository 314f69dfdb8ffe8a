package main

import (
	"encoding/json"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/openchasm/tds2ida/pkg/tds"
	"github.com/openchasm/tds2ida/pkg/tds/disasm"
	"github.com/openchasm/tds2ida/pkg/tds/idapy"
	"github.com/openchasm/tds2ida/pkg/tds/rawfile"
	"github.com/openchasm/tds2ida/pkg/tds/tdserr"
)

// dump is the JSON document written with -json.
type dump struct {
	Info    *tds.Info        `json:"info"`
	Modules []tds.ModuleInfo `json:"modules"`
	Types   []tds.TypeInfo   `json:"types"`
	Symbols []tds.Symbol     `json:"symbols"`
	Sources []tds.SourceInfo `json:"sources"`
}

// convert loads cfg.input and writes the script or JSON dump. The output file
// is only created once the input loaded successfully.
func convert(cfg config, stdout io.Writer, log *zap.Logger) error {
	t, err := tds.Open(cfg.input, tds.WithMaxDepth(cfg.maxDepth))
	if err != nil {
		return err
	}

	var entries []disasm.Entry
	if cfg.check {
		if entries, err = checkEntries(cfg.input, t, log); err != nil {
			return err
		}
	}

	write := func(w io.Writer) error {
		if cfg.json {
			return writeJSON(w, t, entries, cfg.pretty)
		}
		_, err := idapy.Generate(w, t)
		return err
	}

	if cfg.output == "" {
		return write(stdout)
	}

	f, err := os.Create(cfg.output)
	if err != nil {
		return tdserr.IO(tdserr.PhaseGenerate, cfg.output, "unable to open output file", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return tdserr.IO(tdserr.PhaseGenerate, cfg.output, "failed to close output file", err)
	}
	return nil
}

func checkEntries(path string, t *tds.TDS, log *zap.Logger) ([]disasm.Entry, error) {
	f, err := rawfile.Open(path)
	if err != nil {
		return nil, tdserr.IO(tdserr.PhaseOpen, path, "unable to reopen input", err)
	}
	defer f.Close()

	entries, err := disasm.CheckEntries(f, t)
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, e := range entries {
		if e.OK() {
			continue
		}
		failed++
		log.Warn("function entry does not decode",
			zap.String("symbol", e.Name),
			zap.Uint16("segment", e.Segment),
			zap.Uint16("offset", e.Offset),
			zap.Error(e.Err))
	}
	log.Info("entry points checked", zap.Int("functions", len(entries)), zap.Int("failed", failed))

	return entries, nil
}

func writeJSON(w io.Writer, t *tds.TDS, entries []disasm.Entry, pretty bool) error {
	d := dump{
		Info:    t.Info(),
		Modules: t.ModuleList(),
		Types:   t.TypeList(),
		Symbols: t.GlobalSymbols(),
		Sources: t.SourceFiles(),
	}

	if len(entries) > 0 {
		text := make(map[int]string, len(entries))
		for _, e := range entries {
			if e.OK() {
				text[e.Symbol] = e.Text
			} else {
				text[e.Symbol] = "error: " + e.Err.Error()
			}
		}
		for i := range d.Symbols {
			d.Symbols[i].Entry = text[d.Symbols[i].Index]
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(d); err != nil {
		return tdserr.IO(tdserr.PhaseGenerate, t.Name, "failed to encode JSON", err)
	}
	return nil
}
