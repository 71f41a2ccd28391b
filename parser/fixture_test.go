package parser

import (
	"context"

	"github.com/pkg/errors"
)

// An in memory Database implementation standing in for a real ESE
// file.

var errTableNotFound = errors.New("table not found")

type fakeRecord map[string]interface{}

func (self fakeRecord) Get(column string) (interface{}, bool) {
	value, pres := self[column]
	return value, pres
}

type fakeTable struct {
	name    string
	columns []Column
	records []fakeRecord
}

func (self *fakeTable) Name() string {
	return self.name
}

func (self *fakeTable) Columns() []Column {
	return self.columns
}

func (self *fakeTable) Walk(ctx context.Context, cb func(Record) error) error {
	for _, record := range self.records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := cb(record)
		if err != nil {
			return err
		}
	}
	return nil
}

type fakeDatabase struct {
	tables []*fakeTable
	closed bool
}

func (self *fakeDatabase) Tables() []string {
	result := make([]string, 0, len(self.tables))
	for _, table := range self.tables {
		result = append(result, table.name)
	}
	return result
}

func (self *fakeDatabase) Table(name string) (Table, error) {
	for _, table := range self.tables {
		if table.name == name {
			return table, nil
		}
	}
	return nil, errTableNotFound
}

func (self *fakeDatabase) Close() error {
	self.closed = true
	return nil
}
