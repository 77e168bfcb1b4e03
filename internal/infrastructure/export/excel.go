package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/telegram-gemini-bot/internal/domain/entity"
)

const (
	usersSheet        = "Users"
	interactionsSheet = "Interactions"
)

// BuildWorkbook renders the user registry and the interaction log as an
// Excel workbook and returns the serialized bytes.
func BuildWorkbook(users []entity.User, messages []entity.Message) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), usersSheet)

	if err := writeRow(f, usersSheet, 1, "Chat ID", "Username", "First seen"); err != nil {
		return nil, err
	}
	for i, user := range users {
		err := writeRow(f, usersSheet, i+2,
			user.ChatID,
			user.Username,
			user.FirstSeen.Format(time.RFC3339))
		if err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(interactionsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeRow(f, interactionsSheet, 1, "Time", "Chat ID", "Username", "Prompt", "Response"); err != nil {
		return nil, err
	}
	for i, msg := range messages {
		err := writeRow(f, interactionsSheet, i+2,
			msg.Timestamp.Format(time.RFC3339),
			msg.ChatID,
			msg.Username,
			msg.Text,
			msg.Response)
		if err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell at row %d: %w", row, err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}
