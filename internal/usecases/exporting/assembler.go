package exporting

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
)

var ErrDomainNotInResults = errors.New("domain has no enriched data in this batch")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options controla os arquivos gerados por WriteDir e Archive
type Options struct {
	PerDomain bool
	Zip       bool
}

// Assembler transforma os resultados de um lote em CSVs. Domínios com falha
// ficam fora dos CSVs de dados e aparecem apenas no resumo.
type Assembler struct {
	excelBOM bool
}

// NewAssembler cria o montador. Com excelBOM os CSVs começam com o BOM UTF-8,
// para o Excel reconhecer acentos.
func NewAssembler(excelBOM bool) *Assembler {
	return &Assembler{excelBOM: excelBOM}
}

func (a *Assembler) MetadataCSV(w io.Writer, results []*domain.DomainResult) error {
	return a.writeCSV(w, MetadataColumns, func(write func([]string) error) error {
		for _, r := range succeeded(results) {
			if err := write(metadataRow(r.Metadata)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *Assembler) TimeSeriesCSV(w io.Writer, results []*domain.DomainResult) error {
	return a.writeCSV(w, TimeSeriesColumns, func(write func([]string) error) error {
		for _, r := range succeeded(results) {
			if err := writeTimeSeries(write, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *Assembler) DomainMetadataCSV(w io.Writer, results []*domain.DomainResult, domainName string) error {
	result, err := findDomain(results, domainName)
	if err != nil {
		return err
	}

	return a.writeCSV(w, MetadataColumns, func(write func([]string) error) error {
		return write(metadataRow(result.Metadata))
	})
}

func (a *Assembler) DomainTimeSeriesCSV(w io.Writer, results []*domain.DomainResult, domainName string) error {
	result, err := findDomain(results, domainName)
	if err != nil {
		return err
	}

	return a.writeCSV(w, TimeSeriesColumns, func(write func([]string) error) error {
		return writeTimeSeries(write, result)
	})
}

// SummaryCSV tem uma linha por entrada do lote, inclusive as que falharam
func (a *Assembler) SummaryCSV(w io.Writer, results []*domain.DomainResult) error {
	return a.writeCSV(w, SummaryColumns, func(write func([]string) error) error {
		for _, r := range ordered(results) {
			if err := write(summaryRow(r)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Archive gera um zip com os três CSVs e, opcionalmente, os arquivos por
// domínio. A ordem das entradas é fixa e os horários zerados, então os mesmos
// resultados geram os mesmos bytes.
func (a *Assembler) Archive(w io.Writer, results []*domain.DomainResult, perDomain bool) error {
	files, err := a.files(results, perDomain)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, f := range files {
		header := &zip.FileHeader{
			Name:     f.name,
			Method:   zip.Deflate,
			Modified: time.Time{},
		}

		entry, err := zw.CreateHeader(header)
		if err != nil {
			return errors.Wrapf(err, "creating zip entry %s", f.name)
		}

		if _, err := entry.Write(f.data); err != nil {
			return errors.Wrapf(err, "writing zip entry %s", f.name)
		}
	}

	return errors.Wrap(zw.Close(), "closing zip archive")
}

// WriteDir grava os arquivos no diretório e retorna os caminhos gerados
func (a *Assembler) WriteDir(dir string, results []*domain.DomainResult, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating output dir %s", dir)
	}

	if opts.Zip {
		var buf bytes.Buffer
		if err := a.Archive(&buf, results, opts.PerDomain); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, ArchiveFileName)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return nil, errors.Wrapf(err, "writing %s", path)
		}
		return []string{path}, nil
	}

	files, err := a.files(results, opts.PerDomain)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f.name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating dir for %s", path)
		}

		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return nil, errors.Wrapf(err, "writing %s", path)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

type file struct {
	name string
	data []byte
}

type fileBuilder struct {
	name string
	fn   func(io.Writer) error
}

func (a *Assembler) files(results []*domain.DomainResult, perDomain bool) ([]file, error) {
	render := func(fn func(io.Writer) error) ([]byte, error) {
		var buf bytes.Buffer
		if err := fn(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	builders := []fileBuilder{
		{MetadataFileName, func(w io.Writer) error { return a.MetadataCSV(w, results) }},
		{TimeSeriesFileName, func(w io.Writer) error { return a.TimeSeriesCSV(w, results) }},
		{SummaryFileName, func(w io.Writer) error { return a.SummaryCSV(w, results) }},
	}

	if perDomain {
		for _, r := range succeeded(results) {
			domainName := r.Domain
			prefix := domainsDir + "/" + domainName + "/"
			builders = append(builders,
				fileBuilder{prefix + MetadataFileName, func(w io.Writer) error {
					return a.DomainMetadataCSV(w, results, domainName)
				}},
				fileBuilder{prefix + TimeSeriesFileName, func(w io.Writer) error {
					return a.DomainTimeSeriesCSV(w, results, domainName)
				}},
			)
		}
	}

	files := make([]file, 0, len(builders))
	for _, b := range builders {
		data, err := render(b.fn)
		if err != nil {
			return nil, errors.Wrapf(err, "rendering %s", b.name)
		}
		files = append(files, file{name: b.name, data: data})
	}

	return files, nil
}

func (a *Assembler) writeCSV(w io.Writer, header []string, rows func(write func([]string) error) error) error {
	if a.excelBOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return errors.Wrap(err, "writing BOM")
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "writing csv header")
	}

	if err := rows(writer.Write); err != nil {
		return errors.Wrap(err, "writing csv row")
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "flushing csv")
}

func writeTimeSeries(write func([]string) error, r *domain.DomainResult) error {
	if r.TimeSeries == nil {
		return nil
	}

	for i := range r.TimeSeries.Points {
		if err := write(timeSeriesRow(r.Domain, &r.TimeSeries.Points[i])); err != nil {
			return err
		}
	}
	return nil
}

// ordered devolve os resultados não nulos na ordem da entrada
func ordered(results []*domain.DomainResult) []*domain.DomainResult {
	out := make([]*domain.DomainResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func succeeded(results []*domain.DomainResult) []*domain.DomainResult {
	out := make([]*domain.DomainResult, 0, len(results))
	for _, r := range ordered(results) {
		if r.Succeeded() {
			out = append(out, r)
		}
	}
	return out
}

func findDomain(results []*domain.DomainResult, domainName string) (*domain.DomainResult, error) {
	target := domain.NormalizeDomain(domainName)
	for _, r := range succeeded(results) {
		if r.Domain == target {
			return r, nil
		}
	}

	return nil, errors.Wrapf(ErrDomainNotInResults, "domain %q", domainName)
}
