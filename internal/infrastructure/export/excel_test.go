package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/telegram-gemini-bot/internal/domain/entity"
)

func Test_BuildWorkbook(t *testing.T) {
	req := require.New(t)

	at := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	users := []entity.User{
		{ChatID: 42, Username: "alice", FirstSeen: at},
		{ChatID: 43, Username: "bob", FirstSeen: at.Add(time.Hour)},
	}
	messages := []entity.Message{
		{ID: "m1", ChatID: 42, Username: "alice", Text: "hello", Response: "hi", Timestamp: at},
	}

	data, err := BuildWorkbook(users, messages)
	req.NoError(err)
	req.NotEmpty(data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	req.NoError(err)
	defer f.Close()

	userRows, err := f.GetRows("Users")
	req.NoError(err)
	req.Len(userRows, 3)
	req.Equal([]string{"Chat ID", "Username", "First seen"}, userRows[0])
	req.Equal("42", userRows[1][0])
	req.Equal("alice", userRows[1][1])

	msgRows, err := f.GetRows("Interactions")
	req.NoError(err)
	req.Len(msgRows, 2)
	req.Equal("hello", msgRows[1][3])
	req.Equal("hi", msgRows[1][4])
}

func Test_WriteRow_PropagatesErrors(t *testing.T) {
	req := require.New(t)

	f := excelize.NewFile()
	defer f.Close()

	// Unknown sheet fails the cell write.
	err := writeRow(f, "NoSuchSheet", 1, "value")
	req.Error(err)

	// Row zero is not a valid coordinate.
	err = writeRow(f, f.GetSheetName(0), 0, "value")
	req.Error(err)
}

func Test_BuildWorkbook_Empty(t *testing.T) {
	req := require.New(t)

	data, err := BuildWorkbook(nil, nil)
	req.NoError(err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	req.NoError(err)
	defer f.Close()

	userRows, err := f.GetRows("Users")
	req.NoError(err)
	req.Len(userRows, 1)
}
