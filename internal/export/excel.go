package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"agendavel/internal/models"
	"agendavel/internal/schedule"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Agenda"

const (
	statusIconConfirmed = "✅"
	statusIconPending   = "⏳"
	statusIconUnknown   = "❓"
)

// Exporter builds xlsx schedules for the clinic staff: one row per time
// slot, one column per location.
type Exporter struct {
	exportPath string
	logger     *zerolog.Logger
}

func NewExporter(exportPath string, logger *zerolog.Logger) *Exporter {
	return &Exporter{
		exportPath: exportPath,
		logger:     logger,
	}
}

// BuildDaySchedule renders one day across all locations. The bookings map
// is keyed by location key; cancelled bookings should already be excluded.
func (e *Exporter) BuildDaySchedule(date time.Time, locations []*models.Location, bookings map[string][]*models.Booking) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Agenda: %s", date.Format("02.01.2006")))

	slotSets := make(map[string]map[string]bool, len(locations))
	allSlots := writeLocationHeaders(f, locations, slotSets)

	byLocationTime := indexBookings(bookings)

	for rowIdx, slot := range allSlots {
		row := rowIdx + 3
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheetName, cell, slot)

		for colIdx, loc := range locations {
			cell, _ = excelize.CoordinatesToCellName(colIdx+2, row)

			if booking, ok := byLocationTime[loc.Key][slot]; ok {
				_ = f.SetCellValue(sheetName, cell, bookingCellValue(booking))
				if styleID, err := statusCellStyle(f, booking.Status); err == nil {
					_ = f.SetCellStyle(sheetName, cell, cell, styleID)
				}
				continue
			}

			if slotSets[loc.Key][slot] {
				_ = f.SetCellValue(sheetName, cell, "Livre")
			} else {
				_ = f.SetCellValue(sheetName, cell, "—")
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	for i := 0; i < len(locations); i++ {
		col, _ := excelize.ColumnNumberToName(i + 2)
		_ = f.SetColWidth(sheetName, col, col, 30)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(locations) + 1)
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")

	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", style)

	_ = f.DeleteSheet("Sheet1")

	return f, nil
}

// WriteDaySchedule streams the rendered day schedule, for HTTP handlers.
func (e *Exporter) WriteDaySchedule(w io.Writer, date time.Time, locations []*models.Location, bookings map[string][]*models.Booking) error {
	f, err := e.BuildDaySchedule(date, locations, bookings)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

// SaveDaySchedule renders the schedule into the export directory and
// returns the file path.
func (e *Exporter) SaveDaySchedule(date time.Time, locations []*models.Location, bookings map[string][]*models.Booking) (string, error) {
	if err := os.MkdirAll(e.exportPath, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f, err := e.BuildDaySchedule(date, locations, bookings)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("agenda_%s.xlsx", date.Format("2006-01-02"))
	filePath := filepath.Join(e.exportPath, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

// writeLocationHeaders fills row 2 and returns the sorted union of all
// locations' candidate slots. slotSets collects each location's own grid so
// off-hours cells can be rendered differently from free ones.
func writeLocationHeaders(f *excelize.File, locations []*models.Location, slotSets map[string]map[string]bool) []string {
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	cell, _ := excelize.CoordinatesToCellName(1, 2)
	_ = f.SetCellValue(sheetName, cell, "Horário")
	_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)

	union := make(map[string]bool)
	for i, loc := range locations {
		cell, _ = excelize.CoordinatesToCellName(i+2, 2)
		_ = f.SetCellValue(sheetName, cell, loc.Name)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)

		set := make(map[string]bool)
		for _, slot := range schedule.GenerateSlots(loc.Hours) {
			set[slot] = true
			union[slot] = true
		}
		slotSets[loc.Key] = set
	}

	slots := make([]string, 0, len(union))
	for slot := range union {
		slots = append(slots, slot)
	}
	// HH:MM sorts correctly as text
	sort.Strings(slots)
	return slots
}

func indexBookings(bookings map[string][]*models.Booking) map[string]map[string]*models.Booking {
	indexed := make(map[string]map[string]*models.Booking, len(bookings))
	for key, list := range bookings {
		byTime := make(map[string]*models.Booking, len(list))
		for _, b := range list {
			byTime[b.Time] = b
		}
		indexed[key] = byTime
	}
	return indexed
}

func bookingCellValue(booking *models.Booking) string {
	value := fmt.Sprintf("%s %s (%s)", statusIcon(booking.Status), booking.ClientName, booking.ClientPhone)
	if booking.Comment != "" {
		value += fmt.Sprintf("\n💬 %s", booking.Comment)
	}
	return value
}

func statusIcon(status string) string {
	switch status {
	case models.StatusConfirmed, models.StatusCompleted:
		return statusIconConfirmed
	case models.StatusPending:
		return statusIconPending
	default:
		return statusIconUnknown
	}
}

func statusCellStyle(f *excelize.File, status string) (int, error) {
	color := "#FFEB9C" // pending
	if status == models.StatusConfirmed || status == models.StatusCompleted {
		color = "#C6EFCE"
	}

	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "top",
			WrapText:   true,
		},
	})
}
