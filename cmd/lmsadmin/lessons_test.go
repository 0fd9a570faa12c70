package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLessonsCSV(t *testing.T) {
	input := "Title,Content,Sequence\nBudgets,\"Track every rupee, weekly\",2\nSavings,Pay yourself first,\n"

	lessons, err := readLessonsCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "Budgets", lessons[0].Title)
	assert.Equal(t, "Track every rupee, weekly", lessons[0].Content)
	assert.Equal(t, 2, lessons[0].Sequence)
	assert.Equal(t, 0, lessons[1].Sequence)
}

func TestReadLessonsCSVRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"headers only":   "title,content\n",
		"missing column": "title\nBudgets\n",
		"bad sequence":   "title,content,sequence\nBudgets,x,two\n",
		"missing title":  "title,content\n,some content\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := readLessonsCSV(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}
