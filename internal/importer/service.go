package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/encoding"
	"github.com/MrJamesThe3rd/libro/internal/importer/bank"
	"github.com/MrJamesThe3rd/libro/internal/importer/normalize"
	"github.com/MrJamesThe3rd/libro/internal/importer/rcv"
	"github.com/MrJamesThe3rd/libro/internal/importer/tabular"
	"github.com/MrJamesThe3rd/libro/internal/reconcile"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type TransactionImporter interface {
	ImportBatch(ctx context.Context, companyID uuid.UUID, txs []*transaction.Transaction) (*transaction.ImportResult, error)
	Resolve(ctx context.Context, companyID uuid.UUID, result *transaction.ImportResult, decision transaction.Decision) ([]*transaction.Transaction, error)
}

// Directory recovers and records counterparty names.
type Directory interface {
	Fill(ctx context.Context, companyID uuid.UUID, txs []*transaction.Transaction) (int, error)
	LearnFrom(ctx context.Context, companyID uuid.UUID, txs []*transaction.Transaction) error
}

type Service struct {
	transactions TransactionImporter
	directory    Directory
	builder      rcv.Builder
	bank         *bank.Parser
}

func NewService(transactions TransactionImporter, directory Directory) *Service {
	return &Service{
		transactions: transactions,
		directory:    directory,
		builder:      rcv.Builder{Normalizer: normalize.New()},
		bank:         bank.NewParser(),
	}
}

// ImportFiles parses every file concurrently. A file that cannot be decoded
// or has no total column is reported in Failures while the others still
// count; the call only fails when no file produced a transaction.
func (s *Service) ImportFiles(ctx context.Context, companyID uuid.UUID, files []File, opts Options) (*BatchResult, error) {
	type parsed struct {
		file FileResult
		txs  []*transaction.Transaction
		err  error
	}

	results := make([]parsed, len(files))

	var wg sync.WaitGroup

	for i, f := range files {
		wg.Add(1)

		go func() {
			defer wg.Done()

			fr, txs, err := s.parseFile(ctx, companyID, f, opts)
			results[i] = parsed{file: fr, txs: txs, err: err}
		}()
	}

	wg.Wait()

	batch := &BatchResult{}

	var errs []error

	for _, r := range results {
		if r.err != nil {
			slog.Warn("failed to import file", "file", r.file.Name, "error", r.err)

			failure := FileFailure{Name: r.file.Name, Err: r.err}
			batch.Failures = append(batch.Failures, failure)
			errs = append(errs, failure)

			continue
		}

		batch.Files = append(batch.Files, r.file)
		batch.Transactions = append(batch.Transactions, r.txs...)
		batch.Errors = append(batch.Errors, r.file.Errors...)
	}

	if len(batch.Transactions) == 0 {
		return batch, errors.Join(append([]error{ErrNoTransactions}, errs...)...)
	}

	return batch, nil
}

func (s *Service) parseFile(ctx context.Context, companyID uuid.UUID, f File, opts Options) (FileResult, []*transaction.Transaction, error) {
	fr := FileResult{Name: f.Name, Flow: opts.flow(f.Name)}

	if err := ctx.Err(); err != nil {
		return fr, nil, err
	}

	text, charset, err := encoding.DecodeString(f.Data)
	if err != nil {
		return fr, nil, fmt.Errorf("decoding: %w", err)
	}

	fr.Charset = charset

	table, err := tabular.Parse(text)
	if err != nil {
		return fr, nil, err
	}

	b := s.builder
	b.Strict = opts.Strict

	res, err := b.Build(companyID, f.Name, table, fr.Flow)
	if err != nil {
		return fr, nil, err
	}

	fr.Imported = len(res.Transactions)
	fr.Skipped = res.Skipped
	fr.Errors = res.Errors

	return fr, res.Transactions, nil
}

// Store recovers unknown names from the directory and hands txs to the
// duplicate-aware import. Names are learned once rows are committed, so a
// result with conflicts learns nothing until Resolve.
func (s *Service) Store(ctx context.Context, companyID uuid.UUID, txs []*transaction.Transaction) (*transaction.ImportResult, error) {
	if _, err := s.directory.Fill(ctx, companyID, txs); err != nil {
		return nil, fmt.Errorf("filling names: %w", err)
	}

	result, err := s.transactions.ImportBatch(ctx, companyID, txs)
	if err != nil {
		return nil, err
	}

	if len(result.Conflicts) == 0 {
		s.learn(ctx, companyID, result.Imported)
	}

	return result, nil
}

func (s *Service) Resolve(ctx context.Context, companyID uuid.UUID, result *transaction.ImportResult, decision transaction.Decision) ([]*transaction.Transaction, error) {
	imported, err := s.transactions.Resolve(ctx, companyID, result, decision)
	if err != nil {
		return nil, err
	}

	s.learn(ctx, companyID, imported)

	return imported, nil
}

// learn runs after commit and only logs failures.
func (s *Service) learn(ctx context.Context, companyID uuid.UUID, txs []*transaction.Transaction) {
	if len(txs) == 0 {
		return
	}

	if err := s.directory.LearnFrom(ctx, companyID, txs); err != nil {
		slog.Warn("failed to learn entity names", "company_id", companyID, "error", err)
	}
}

// ImportBank reads a bank statement export.
func (s *Service) ImportBank(r io.Reader) ([]reconcile.BankLine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	text, _, err := encoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decoding statement: %w", err)
	}

	return s.bank.Parse(text)
}
