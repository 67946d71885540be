package services

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"

	"github.com/blogem/access-log-viewer/metrics"
	"github.com/blogem/access-log-viewer/models"
	"github.com/blogem/access-log-viewer/repositories"
)

var (
	// ErrNoFile is returned when an import is attempted without a file
	ErrNoFile = errors.New("no file uploaded")
	// ErrEmptyFile is returned when the uploaded file has no data rows
	ErrEmptyFile = errors.New("file contains no log rows")
	// ErrInvalidHeader is returned when required columns are missing
	ErrInvalidHeader = errors.New("invalid CSV header")
	// ErrUploadTooLarge is returned when a compressed upload expands past MaxDecompressedBytes
	ErrUploadTooLarge = errors.New("decompressed upload is too large")
)

// MaxDecompressedBytes bounds how much CSV a gzip upload may expand to
var MaxDecompressedBytes int64 = 256 << 20

// RowError reports a problem with one line of an uploaded file
type RowError struct {
	Line    int
	Message string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// LogService interface defines loading and ingestion of access logs
type LogService interface {
	LoadLogs(ctx context.Context) ([]models.LogRecord, error)
	Import(ctx context.Context, filename string, r io.Reader) (*models.ImportResult, error)
}

// logService implements LogService interface
type logService struct {
	logRepo repositories.LogRepository
}

// NewLogService creates a new log service
func NewLogService(logRepo repositories.LogRepository) LogService {
	return &logService{
		logRepo: logRepo,
	}
}

// LoadLogs reads the whole store as a snapshot owned by the caller
func (s *logService) LoadLogs(ctx context.Context) ([]models.LogRecord, error) {
	start := time.Now()
	records, err := s.logRepo.GetAll(ctx)
	metrics.LoadDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		log.Error().Err(err).Msg("error loading logs")
		return nil, fmt.Errorf("failed to load logs: %w", err)
	}

	log.Debug().Int("count", len(records)).Msg("loaded logs")
	return records, nil
}

// Import parses an uploaded CSV (optionally gzip-compressed) and appends its
// rows to the store. The whole file is validated before anything is written,
// so a bad row leaves the store untouched.
func (s *logService) Import(ctx context.Context, filename string, r io.Reader) (*models.ImportResult, error) {
	if r == nil {
		metrics.Imports.WithLabelValues("rejected").Inc()
		return nil, ErrNoFile
	}

	importID := uuid.NewString()
	logger := log.With().Str("import_id", importID).Str("file", filename).Logger()

	records, err := ParseCSV(r)
	if err != nil {
		metrics.Imports.WithLabelValues("rejected").Inc()
		logger.Warn().Err(err).Msg("error importing logs")
		return nil, err
	}

	if err := s.logRepo.CreateBatch(ctx, records); err != nil {
		metrics.Imports.WithLabelValues("failed").Inc()
		logger.Error().Err(err).Msg("error importing logs")
		return nil, fmt.Errorf("failed to store log entries: %w", err)
	}

	metrics.Imports.WithLabelValues("success").Inc()
	metrics.ImportedRecords.Add(float64(len(records)))
	logger.Info().Int("count", len(records)).Msg("imported log entries")

	return &models.ImportResult{
		ImportID: importID,
		Filename: filename,
		Count:    len(records),
	}, nil
}

// ParseCSV reads every row of a log file. Columns are matched by header
// name, extra columns are ignored. Gzip input is detected by its magic bytes.
func ParseCSV(r io.Reader) ([]models.LogRecord, error) {
	input, err := maybeGunzip(r)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(input)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var records []models.LogRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := reader.FieldPos(0)
		record, err := parseRow(row, columns, line)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	return records, nil
}

func maybeGunzip(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip upload: %w", err)
		}
		return &capReader{r: io.LimitReader(zr, MaxDecompressedBytes+1), max: MaxDecompressedBytes}, nil
	}

	return br, nil
}

// capReader fails once more than max bytes have come through
type capReader struct {
	r    io.Reader
	read int64
	max  int64
}

func (c *capReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.read > c.max {
		return n, fmt.Errorf("%w (limit %d bytes)", ErrUploadTooLarge, c.max)
	}
	return n, err
}

func headerIndex(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	var missing []string
	for _, name := range models.CSVHeader {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", ErrInvalidHeader, strings.Join(missing, ", "))
	}

	return columns, nil
}

func parseRow(row []string, columns map[string]int, line int) (models.LogRecord, error) {
	field := func(name string) string {
		if idx := columns[name]; idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	timestamp, err := models.ParseTimestamp(field("timestamp"))
	if err != nil {
		return models.LogRecord{}, &RowError{Line: line, Message: err.Error()}
	}

	statusCode, err := parseStatusCode(field("status_code"))
	if err != nil {
		return models.LogRecord{}, &RowError{Line: line, Message: err.Error()}
	}

	record := models.LogRecord{
		IPAddress:  field("ip_address"),
		Username:   field("username"),
		Action:     field("action"),
		Timestamp:  timestamp,
		StatusCode: statusCode,
	}

	if errs := record.Validate(); len(errs) > 0 {
		return models.LogRecord{}, &RowError{Line: line, Message: strings.Join(errs, ", ")}
	}

	return record, nil
}

// parseStatusCode accepts integers, including a float form such as "200.0"
// written by spreadsheet exports
func parseStatusCode(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("status_code is required")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return 0, fmt.Errorf("invalid status_code %q", s)
}
