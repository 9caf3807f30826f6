package feed

import (
	"errors"
	"io"
	"strings"
	"testing"
)

const feedHeader = "SiteSource\tItemID\tManufacturerID\tManufacturerCode\tManufacturerName\tProductID\tProductName\tProductDescription\tManufacturerItemCode\tItemDescription\tImageFileName\tImageURL\tNDCItemCode\tPKG\tUnitPrice\tQuantityOnHand\tPriceDescription\tAvailability\tPrimaryCategoryID\tPrimaryCategoryName\tSecondaryCategoryID\tSecondaryCategoryName\tGenericCategoryID\tGenericCategoryName\tIsRx\tIsHazmat"

func feedLine(overrides map[int]string) string {
	fields := make([]string, FieldCount)
	for i, v := range overrides {
		fields[i] = v
	}
	return strings.Join(fields, "\t")
}

func TestScannerDiscardsHeaderLine(t *testing.T) {
	input := feedHeader + "\n" + feedLine(map[int]string{0: "AcmeMed", 1: "I1", 5: "P1"}) + "\n"
	sc := NewScanner(strings.NewReader(input))

	if !sc.Scan() {
		t.Fatalf("expected one row, err=%v", sc.Err())
	}
	row := sc.Row()
	if row.SiteSource != "AcmeMed" || row.ItemID != "I1" || row.ProductID != "P1" {
		t.Fatalf("unexpected row %+v", row)
	}
	if sc.Scan() {
		t.Fatal("expected end of stream")
	}
	if sc.Err() != nil {
		t.Fatalf("clean EOF should not error: %v", sc.Err())
	}
}

func TestScannerDiscardsFirstLineEvenWithoutHeaderNames(t *testing.T) {
	// The first line is dropped regardless of its content.
	input := feedLine(map[int]string{0: "RowOne", 1: "I0", 5: "P0"}) + "\n" +
		feedLine(map[int]string{0: "RowTwo", 1: "I1", 5: "P1"}) + "\n"
	sc := NewScanner(strings.NewReader(input))

	if !sc.Scan() {
		t.Fatalf("expected a row, err=%v", sc.Err())
	}
	if sc.Row().SiteSource != "RowTwo" {
		t.Fatalf("expected first data line to be discarded, got %+v", sc.Row())
	}
}

func TestScannerToleratesShortAndLongRows(t *testing.T) {
	input := feedHeader + "\n" +
		"OnlySite\tI9\n" + // short row: trailing fields empty
		feedLine(map[int]string{0: "Full", 1: "I2", 5: "P2"}) + "\textra\tcolumns\n" // extras ignored
	sc := NewScanner(strings.NewReader(input))

	if !sc.Scan() {
		t.Fatalf("expected short row, err=%v", sc.Err())
	}
	short := sc.Row()
	if short.SiteSource != "OnlySite" || short.ItemID != "I9" || short.ProductID != "" {
		t.Fatalf("unexpected short row %+v", short)
	}

	if !sc.Scan() {
		t.Fatalf("expected long row, err=%v", sc.Err())
	}
	long := sc.Row()
	if long.SiteSource != "Full" || long.ProductID != "P2" {
		t.Fatalf("unexpected long row %+v", long)
	}
}

func TestScannerSkipsBlankLines(t *testing.T) {
	input := feedHeader + "\n\n   \n" + feedLine(map[int]string{0: "A", 1: "I1", 5: "P1"}) + "\n\n"
	sc := NewScanner(strings.NewReader(input))

	count := 0
	for sc.Scan() {
		count++
	}
	if count != 1 {
		t.Fatalf("expected 1 row, got %d", count)
	}
}

type failingReader struct {
	data []byte
	err  error
	read bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.read {
		f.read = true
		n := copy(p, f.data)
		return n, nil
	}
	return 0, f.err
}

func TestScannerSurfacesReadFailure(t *testing.T) {
	readErr := errors.New("connection reset")
	sc := NewScanner(&failingReader{data: []byte(feedHeader + "\n"), err: readErr})

	for sc.Scan() {
	}
	if sc.Err() == nil {
		t.Fatal("expected a stream error")
	}
	if !errors.Is(sc.Err(), readErr) {
		t.Fatalf("expected cause to be preserved, got %v", sc.Err())
	}
}

func TestScannerEmptyStream(t *testing.T) {
	sc := NewScanner(io.LimitReader(strings.NewReader(""), 0))
	if sc.Scan() {
		t.Fatal("expected no rows from empty stream")
	}
	if sc.Err() != nil {
		t.Fatalf("empty stream is not an error: %v", sc.Err())
	}
}
