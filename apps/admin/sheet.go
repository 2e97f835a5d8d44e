package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/gestionschool/gestionecole/core/record"
	"github.com/gestionschool/gestionecole/core/school"
)

// sheetIO converts the records of one collection from and to spreadsheet rows.
// The first row holds the JSON field names.
type sheetIO struct {
	export func(ctx context.Context, f *excelize.File, sheet string) (int, error)
	load   func(ctx context.Context, rows [][]string) (int, error)
}

func newSheetIO[T any](svc *record.Service[T]) sheetIO {
	flds := svc.Schema().Fields()
	return sheetIO{
		export: func(ctx context.Context, f *excelize.File, sheet string) (int, error) {
			recs, err := svc.QueryAll(ctx)
			if err != nil {
				return 0, err
			}
			return len(recs), writeRows(f, sheet, flds, recs)
		},
		load: func(ctx context.Context, rows [][]string) (int, error) {
			recs, err := readRows(svc.Schema(), rows)
			if err != nil {
				return 0, err
			}
			for i, rec := range recs {
				if _, err = svc.Save(ctx, rec); err != nil {
					return i, errors.Wrapf(err, "row %d", i+2)
				}
			}
			return len(recs), nil
		},
	}
}

func (cli *commandLine) sheetIOs() map[string]sheetIO {
	return map[string]sheetIO{
		school.ClassCollection:          newSheetIO(cli.svcs.Classes),
		school.CourseCollection:         newSheetIO(cli.svcs.Courses.Service),
		school.StudentCollection:        newSheetIO(cli.svcs.Students),
		school.TeacherCollection:        newSheetIO(cli.svcs.Teachers),
		school.AttendanceMarkCollection: newSheetIO(cli.svcs.AttendanceMarks),
		school.TimetableSlotCollection:  newSheetIO(cli.svcs.TimetableSlots),
		school.GradeCollection:          newSheetIO(cli.svcs.Grades),
		school.TuitionRecordCollection:  newSheetIO(cli.svcs.TuitionRecords),
	}
}

func (cli *commandLine) sheetIO(collection string) (sheetIO, error) {
	sio, ok := cli.sheetIOs()[collection]
	if !ok {
		return sheetIO{}, fmt.Errorf("%q: no such collection", collection)
	}
	return sio, nil
}

func (cli *commandLine) export(ctx context.Context, collection, path string) error {
	sio, err := cli.sheetIO(collection)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err = f.SetSheetName(f.GetSheetName(0), collection); err != nil {
		return errors.Wrap(err, "naming sheet")
	}
	n, err := sio.export(ctx, f, collection)
	if err != nil {
		return errors.Wrapf(err, "exporting %s", collection)
	}
	if err = f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	fmt.Fprintf(cli.out, "%d %s exported to %s\n", n, collection, path)
	return nil
}

func (cli *commandLine) importSheet(ctx context.Context, collection, path string) error {
	sio, err := cli.sheetIO(collection)
	if err != nil {
		return err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return errors.New("spreadsheet does not contain any sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return errors.Wrapf(err, "reading sheet %s", sheet)
	}
	n, err := sio.load(ctx, rows)
	if err != nil {
		return errors.Wrapf(err, "importing %s", collection)
	}
	fmt.Fprintf(cli.out, "%d %s imported from %s\n", n, collection, path)
	return nil
}

func writeRows[T any](f *excelize.File, sheet string, flds []record.Field, recs []T) error {
	for col, fld := range flds {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, fld.Name); err != nil {
			return err
		}
	}
	for i, rec := range recs {
		values, err := toFieldMap(rec)
		if err != nil {
			return err
		}
		for col, fld := range flds {
			val, ok := values[fld.Name]
			if !ok || val == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err = f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// readRows skips columns with a blank header and rows with no values.
func readRows[T any](schema record.Schema[T], rows [][]string) ([]T, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	known := make(map[string]bool)
	for _, fld := range schema.Fields() {
		known[fld.Name] = true
	}
	header := make([]string, len(rows[0]))
	for col, name := range rows[0] {
		name = strings.TrimSpace(name)
		if name != "" && !known[name] {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		header[col] = name
	}

	recs := make([]T, 0, len(rows)-1)
	for i, row := range rows[1:] {
		values := make(map[string]interface{}, len(row))
		for col, cell := range row {
			if col >= len(header) || header[col] == "" || strings.TrimSpace(cell) == "" {
				continue
			}
			values[header[col]] = cell
		}
		if len(values) == 0 {
			continue
		}
		rec, err := schema.Decode(values)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i+2)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func toFieldMap(rec interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var values map[string]interface{}
	return values, json.Unmarshal(data, &values)
}
