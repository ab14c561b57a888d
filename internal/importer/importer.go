// Package importer turns uploaded registry and bank statement files into
// transactions and statement lines.
package importer

import (
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/libro/internal/encoding"
	"github.com/MrJamesThe3rd/libro/internal/importer/rcv"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

var ErrNoTransactions = errors.New("no transactions found in the uploaded files")

// File is one uploaded registry export.
type File struct {
	Name string
	Data []byte
}

type Options struct {
	// Flow applies to every file when set. Otherwise Resolver picks the flow
	// from the file name, defaulting to rcv.SniffFlow.
	Flow     transaction.FlowType
	Resolver rcv.FlowResolver
	Strict   bool
}

func (o Options) flow(name string) transaction.FlowType {
	if o.Flow != "" {
		return o.Flow
	}

	if o.Resolver != nil {
		return o.Resolver(name)
	}

	return rcv.SniffFlow(name)
}

type FileResult struct {
	Name     string
	Flow     transaction.FlowType
	Charset  encoding.Charset
	Imported int
	Skipped  int
	Errors   []transaction.ImportError
}

type FileFailure struct {
	Name string
	Err  error
}

func (f FileFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Name, f.Err)
}

func (f FileFailure) Unwrap() error {
	return f.Err
}

// BatchResult keeps files in upload order. Transactions holds the rows of
// every file that parsed, in file order then row order.
type BatchResult struct {
	Transactions []*transaction.Transaction
	Errors       []transaction.ImportError
	Files        []FileResult
	Failures     []FileFailure
}
