// Package export writes volunteer reports.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// CSVFilename is suggested to browsers downloading the report.
const CSVFilename = "volunteers_export.csv"

const csvTimeLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"ID", "Name", "Phone", "Email", "Signup Date", "Ministry Areas", "Categories"}

// WriteVolunteersCSV writes one row per volunteer in the given order.
func WriteVolunteersCSV(w io.Writer, volunteers []domain.Volunteer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range volunteers {
		v := &volunteers[i]
		if err := cw.Write([]string{
			strconv.FormatInt(v.ID, 10),
			v.Name,
			v.Phone,
			v.Email,
			v.SignupDate.Format(csvTimeLayout),
			strings.Join(v.Areas(), ", "),
			strings.Join(v.Categories(), ", "),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
