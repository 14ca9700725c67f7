package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/anicholas99/claimgraph/internal/model"
)

// MockAnalyzer implements Analyzer.
type MockAnalyzer struct {
	ShouldError bool
}

func (m *MockAnalyzer) AnalyzeSource(ctx context.Context, source string) (*model.AnalysisReport, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("analyze error")
	}
	return &model.AnalysisReport{
		Subject:    source,
		ClaimCount: 3,
	}, nil
}

func TestBatchProcessor_ProcessSources(t *testing.T) {
	analyzer := &MockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 2)

	sources := []string{
		"claims/widget.txt",
		"https://patents.google.com/patent/US10123456B2/en",
		"claims/gadget.txt",
	}

	results := processor.ProcessSources(context.Background(), sources)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	for _, res := range results {
		if res.Error != nil {
			t.Errorf("Unexpected error for %s: %v", res.Source, res.Error)
			continue
		}
		if res.Report == nil {
			t.Errorf("Expected report for %s, got nil", res.Source)
		}
	}
}

func TestBatchProcessor_ProcessSources_LargeBatch(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2)

	// Far more sources than the pool's default queue capacity
	sources := make([]string, 40)
	for i := range sources {
		sources[i] = fmt.Sprintf("claims/set-%d.txt", i)
	}

	results := processor.ProcessSources(context.Background(), sources)
	if len(results) != len(sources) {
		t.Fatalf("Expected %d results, got %d", len(sources), len(results))
	}
}

func TestBatchProcessor_ProcessSources_Error(t *testing.T) {
	analyzer := &MockAnalyzer{ShouldError: true}
	processor := NewBatchProcessor(analyzer, 2)

	results := processor.ProcessSources(context.Background(), []string{"claims/widget.txt"})

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}

	if results[0].Error == nil {
		t.Error("Expected error, got nil")
	}
	if results[0].Report != nil {
		t.Error("Expected nil report on error")
	}
}

func TestBatchProcessor_ProcessSources_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2)

	results := processor.ProcessSources(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("Expected 0 results, got %d", len(results))
	}
}

func TestAnalyzeResult_GetError(t *testing.T) {
	r1 := &AnalyzeResult{Source: "claims/widget.txt"}
	if r1.GetError() != nil {
		t.Errorf("Expected nil error, got %v", r1.GetError())
	}

	want := errors.New("analyze failed")
	r2 := &AnalyzeResult{Source: "claims/widget.txt", Error: want}
	if r2.GetError() != want {
		t.Errorf("Expected %v, got %v", want, r2.GetError())
	}
}

func writeSourceList(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "sources")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestReadSourcesFromFile(t *testing.T) {
	path := writeSourceList(t, `claims/widget.txt
# portfolio batch
https://patents.google.com/patent/US10123456B2/en

claims/gadget.txt   `)

	sources, err := ReadSourcesFromFile(path)
	if err != nil {
		t.Fatalf("ReadSourcesFromFile failed: %v", err)
	}

	expected := []string{
		"claims/widget.txt",
		"https://patents.google.com/patent/US10123456B2/en",
		"claims/gadget.txt",
	}
	if len(sources) != len(expected) {
		t.Fatalf("Expected %d sources, got %d", len(expected), len(sources))
	}

	for i, source := range sources {
		if source != expected[i] {
			t.Errorf("Expected source %s at index %d, got %s", expected[i], i, source)
		}
	}
}

func TestReadSourcesFromFile_Deduplication(t *testing.T) {
	path := writeSourceList(t, "claims/widget.txt\nclaims/widget.txt\n")

	sources, err := ReadSourcesFromFile(path)
	if err != nil {
		t.Fatalf("ReadSourcesFromFile failed: %v", err)
	}

	if len(sources) != 1 {
		t.Errorf("Expected 1 source after deduplication, got %d", len(sources))
	}
}

func TestReadSourcesFromFile_NonExistent(t *testing.T) {
	if _, err := ReadSourcesFromFile("no_such_file.txt"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeSourceList(t, "claims/widget.txt\nclaims/gadget.txt\n# comment\n\nclaims/sprocket.txt\n")

	processor := NewBatchProcessor(&MockAnalyzer{}, 2)

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("Expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2)

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.txt"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	path := writeSourceList(t, "")

	processor := NewBatchProcessor(&MockAnalyzer{}, 2)

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 results for empty file, got %d", len(results))
	}
}
