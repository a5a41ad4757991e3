package repository

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/tirasundara/settlement-optimizer/internal/domain"
	"github.com/tirasundara/settlement-optimizer/pkg/fileutil"
	"go.uber.org/zap"
)

var balanceHeaderFields = []string{"participant", "amount", "role"}

// CSVBalanceRepository implements domain.BalanceRepository for CSV files with
// participant, amount and role columns. Payers and receivers keep file order.
type CSVBalanceRepository struct {
	FilePath string
	reader   *fileutil.CSVReader
	logger   *zap.Logger
}

var _ domain.BalanceRepository = (*CSVBalanceRepository)(nil)

// NewCSVBalanceRepository creates a CSVBalanceRepository. A nil logger discards
// row warnings.
func NewCSVBalanceRepository(filePath string, logger *zap.Logger) *CSVBalanceRepository {
	return newCSVBalanceRepository(fileutil.NewCSVReader(filePath), logger)
}

// NewCSVBalanceRepositoryFrom reads balances from r, e.g. an uploaded body
func NewCSVBalanceRepositoryFrom(name string, r io.Reader, logger *zap.Logger) *CSVBalanceRepository {
	return newCSVBalanceRepository(fileutil.NewCSVReaderFrom(name, r), logger)
}

func newCSVBalanceRepository(reader *fileutil.CSVReader, logger *zap.Logger) *CSVBalanceRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVBalanceRepository{
		FilePath: reader.FilePath,
		reader:   reader,
		logger:   logger,
	}
}

// Source returns the file path or the name given to the reader
func (r *CSVBalanceRepository) Source() string {
	return r.FilePath
}

// GetBalances reads every valid row, skipping bad ones with a warning
func (r *CSVBalanceRepository) GetBalances() (domain.Balances, error) {
	var columnMap map[string]int
	var maxIndex int

	headerFn := func(header []string) error {
		var err error
		columnMap, err = createHeaderMap(header, balanceHeaderFields)
		if err != nil {
			return fmt.Errorf("mapping CSV columns: %w", err)
		}
		maxIndex = maxColumn(columnMap)
		return nil
	}

	var balances domain.Balances
	rowFn := func(line int, row []string) error {
		if len(row) <= maxIndex {
			r.logger.Warn("skipping short balance row", zap.String("source", r.FilePath), zap.Int("line", line))
			return nil
		}

		amount, err := decimal.NewFromString(row[columnMap["amount"]])
		if err != nil {
			r.logger.Warn("skipping balance row with invalid amount",
				zap.String("source", r.FilePath), zap.Int("line", line), zap.Error(err))
			return nil
		}
		if amount.IsNegative() {
			r.logger.Warn("skipping balance row with negative amount",
				zap.String("source", r.FilePath), zap.Int("line", line), zap.Stringer("amount", amount))
			return nil
		}

		role, ok := domain.ParseRole(row[columnMap["role"]])
		if !ok {
			r.logger.Warn("skipping balance row with unknown role",
				zap.String("source", r.FilePath), zap.Int("line", line), zap.String("role", row[columnMap["role"]]))
			return nil
		}

		balances.Add(domain.Participant{
			Name:   row[columnMap["participant"]],
			Amount: amount,
			Role:   role,
		})
		return nil
	}

	if err := r.reader.ReadAndProcessByRow(headerFn, rowFn); err != nil {
		return domain.Balances{}, fmt.Errorf("reading balances from %s: %w", r.FilePath, err)
	}

	return balances, nil
}
