package actions

import (
	"fmt"
	"net/http"

	"github.com/gobuffalo/buffalo"
	"github.com/xuri/excelize/v2"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/models"
)

var vehicleExportHeader = []string{"Plate", "Make", "Model", "Owner", "Customer", "Monitored"}

// swagger:operation GET /exports/vehicles Exports ExportsVehicles
// ExportsVehicles
//
// spreadsheet of the vehicles grid under the current filter. Takes the same
// parameters as the grid endpoint, ignoring paging.
// ---
//
//	responses:
//	  '200':
//	    description: an .xlsx stream
func exportsVehicles(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	params := api.NewGridParams(c.Params())
	params.ForExport()

	var vehicles models.Vehicles
	rows, _, _, err := vehicles.RowsForGrid(tx, actor, params)
	if err != nil {
		return reportError(c, err)
	}

	content, err := vehicleRowsToXlsx(rows)
	if err != nil {
		return reportError(c, api.NewAppError(err, api.ErrorRenderingExport, api.CategoryInternal))
	}

	response := c.Response()
	response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	response.Header().Set("Content-Disposition", `attachment; filename="vehicles.xlsx"`)
	response.WriteHeader(http.StatusOK)
	_, err = response.Write(content)
	return err
}

func vehicleRowsToXlsx(rows api.VehicleRows) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Vehicles"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range vehicleExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, row := range rows {
		values := []any{row.Plate, row.Make, row.Model, row.OwnerName, row.CustomerName, row.Monitored}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
