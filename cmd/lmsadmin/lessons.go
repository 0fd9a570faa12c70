package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lms/models/course"
	"lms/validators"
)

// readLessonsCSV parses a lesson sheet. The header row must name title and content; a
// sequence column is optional.
func readLessonsCSV(r io.Reader) ([]course.NewLesson, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV file is empty or has only headers")
	}

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"title", "content"} {
		if _, ok := headerIndex[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := headerIndex[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	lessons := make([]course.NewLesson, 0, len(records)-1)
	for i, row := range records[1:] {
		lesson := course.NewLesson{
			Title:   field(row, "title"),
			Content: field(row, "content"),
		}
		if seq := field(row, "sequence"); seq != "" {
			n, err := strconv.Atoi(seq)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid sequence %q", i+2, seq)
			}
			lesson.Sequence = n
		}
		if errs := validators.Struct(lesson); len(errs) > 0 {
			return nil, fmt.Errorf("row %d: %v", i+2, errs)
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}
