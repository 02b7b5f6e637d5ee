package source_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/clparker78/straight-razor-draft/internal/adapters/source"
	. "github.com/smartystreets/goconvey/convey"
)

func entryRow(timestamp, email, name string, guesses int) []string {
	row := []string{timestamp, email, name}
	for i := 1; i <= guesses; i++ {
		row = append(row, fmt.Sprintf("player-%d", i))
	}
	return row
}

func writeCSV(dir string, rows [][]string) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r, ",")
	}
	path := filepath.Join(dir, "entries.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		panic(err)
	}
	return path
}

func writeXLSX(dir, sheet string, rows [][]string) string {
	book := excelize.NewFile()
	defer func() { _ = book.Close() }()
	if sheet != "Sheet1" {
		if _, err := book.NewSheet(sheet); err != nil {
			panic(err)
		}
	}
	for i, r := range rows {
		vals := make([]interface{}, len(r))
		for j, v := range r {
			vals[j] = v
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			panic(err)
		}
		if err := book.SetSheetRow(sheet, cellRef, &vals); err != nil {
			panic(err)
		}
	}
	path := filepath.Join(dir, "entries.xlsx")
	if err := book.SaveAs(path); err != nil {
		panic(err)
	}
	return path
}

func TestFileEntries(t *testing.T) {
	ctx := context.Background()

	Convey("Given an entries file laid out like the contest form", t, func() {
		dir := t.TempDir()
		header := append([]string{"Timestamp", "Email", "Name"}, make([]string, 32)...)
		for i := range 32 {
			header[3+i] = fmt.Sprintf("Pick %d", i+1)
		}
		rows := [][]string{
			header,
			entryRow("t1", "sam@example.test", "Sam", 32),
			entryRow("t2", "nobody@example.test", "   ", 32),
			entryRow("t3", "ava@example.test", "Ava", 30),
		}

		Convey("When the file is a CSV", func() {
			entries, err := source.NewFileEntries(writeCSV(dir, rows)).Load(ctx)

			Convey("Then the header and nameless rows should be skipped", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].Participant, ShouldEqual, "Sam")
				So(len(entries[0].Predictions), ShouldEqual, 32)
				So(entries[0].Predictions[0], ShouldEqual, "player-1")
				So(entries[1].Participant, ShouldEqual, "Ava")
				So(len(entries[1].Predictions), ShouldEqual, 30)
			})
		})

		Convey("When the file is a workbook", func() {
			entries, err := source.NewFileEntries(writeXLSX(dir, "Sheet1", rows)).Load(ctx)

			Convey("Then the first sheet should be read", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].Predictions[31], ShouldEqual, "player-32")
				So(len(entries[1].Predictions), ShouldEqual, 30)
			})
		})

		Convey("When the workbook keeps entries on a named sheet", func() {
			path := writeXLSX(dir, "Entries", rows)
			entries, err := source.NewFileEntries(path, source.WithSheet("Entries")).Load(ctx)

			Convey("Then that sheet should be read", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
			})

			Convey("Then asking for a missing sheet should fail", func() {
				_, err := source.NewFileEntries(path, source.WithSheet("Nope")).Load(ctx)
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a compact entries file", t, func() {
		dir := t.TempDir()
		rows := [][]string{
			{"Name", "1", "2", "3", "4", "5"},
			{"Lee", "Caleb", "", "Drake", "", ""},
			{"Max", "Caleb"},
		}

		Convey("When reading with custom columns", func() {
			entries, err := source.NewFileEntries(writeCSV(dir, rows), source.WithColumns(0, 1)).Load(ctx)

			Convey("Then inner blanks should stay and trailing blanks go", func() {
				So(err, ShouldBeNil)
				So(entries[0].Predictions, ShouldResemble, []string{"Caleb", "", "Drake"})
				So(entries[1].Predictions, ShouldResemble, []string{"Caleb"})
			})
		})
	})

	Convey("Given bad entries locations", t, func() {
		Convey("When the path is empty", func() {
			_, err := source.NewFileEntries("").Load(ctx)
			So(errors.Is(err, source.ErrNotConfigured), ShouldBeTrue)
		})

		Convey("When the extension is unknown", func() {
			_, err := source.NewFileEntries("entries.ods").Load(ctx)
			So(errors.Is(err, source.ErrUnsupported), ShouldBeTrue)
		})

		Convey("When the file does not exist", func() {
			_, err := source.NewFileEntries(filepath.Join(t.TempDir(), "missing.csv")).Load(ctx)
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})
}
