package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"example.com/ai-trip-planner/backend/internal/models"
	"example.com/ai-trip-planner/backend/internal/repository"
)

type ExportHandler struct {
	Itineraries *repository.ItineraryRepository
	Links       *ShareHandler
	Logger      *slog.Logger
}

// NewExportHandler создает обработчик выгрузок маршрута.
func NewExportHandler(itineraries *repository.ItineraryRepository, links *ShareHandler, logger *slog.Logger) *ExportHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ExportHandler{Itineraries: itineraries, Links: links, Logger: logger}
}

// ExportJSON выгружает маршрут в JSON-файл.
func (h *ExportHandler) ExportJSON(c echo.Context) error {
	itinerary, err := h.Itineraries.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.lookupError(c, err)
	}

	filename := itinerary.ID + ".json"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, itinerary)
}

// ExportCSV выгружает маршрут в CSV-файл, по строке на активность.
func (h *ExportHandler) ExportCSV(c echo.Context) error {
	itinerary, err := h.Itineraries.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.lookupError(c, err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writeActivitiesCSV(writer, itinerary); err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := itinerary.ID + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportPDF выгружает маршрут в PDF с QR-кодом ссылки для просмотра.
func (h *ExportHandler) ExportPDF(c echo.Context) error {
	itinerary, err := h.Itineraries.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.lookupError(c, err)
	}

	var qrPNG []byte
	if h.Links != nil {
		link, err := h.Links.linkFor(itinerary.ID)
		if err != nil {
			h.Logger.ErrorContext(c.Request().Context(), "failed to create share link", slog.String("error", err.Error()))
			return serverError(c)
		}
		qrPNG, err = qrcode.Encode(link.URL, qrcode.Medium, defaultQRSize)
		if err != nil {
			h.Logger.ErrorContext(c.Request().Context(), "failed to encode qr code", slog.String("error", err.Error()))
			return serverError(c)
		}
	}

	payload, err := renderItineraryPDF(itinerary, qrPNG)
	if err != nil {
		h.Logger.ErrorContext(c.Request().Context(), "failed to render pdf",
			slog.String("itinerary_id", itinerary.ID),
			slog.String("error", err.Error()),
		)
		return serverError(c)
	}

	filename := itinerary.ID + ".pdf"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "application/pdf", payload)
}

func (h *ExportHandler) lookupError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, msgItineraryNotFound)
	}
	return serverError(c)
}

func writeActivitiesCSV(writer *csv.Writer, itinerary models.Itinerary) error {
	header := []string{
		"itinerary_id",
		"destination",
		"day",
		"date",
		"time",
		"activity",
		"location",
		"cost",
		"weather_forecast",
		"notes",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, day := range itinerary.Days {
		for _, activity := range day.Activities {
			record := []string{
				itinerary.ID,
				itinerary.Destination,
				formatInt(day.Day),
				day.Date,
				activity.Time,
				activity.Activity,
				activity.Location,
				formatInt64(activity.Cost),
				activity.WeatherForecast,
				activity.Notes,
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	return nil
}

func renderItineraryPDF(itinerary models.Itinerary, qrPNG []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(itinerary.Destination+" itinerary"), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr("Trip to "+itinerary.Destination))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("%d days, %d travelers", itinerary.TotalDays, itinerary.Travelers)))
	pdf.Ln(7)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Estimated cost: $%d of $%s", itinerary.TotalCost, formatMoney(itinerary.Budget))))
	pdf.Ln(7)

	utilization := budgetUtilization(itinerary.Budget, itinerary.TotalCost)
	if utilization.OverBudget {
		pdf.SetTextColor(200, 30, 30)
		pdf.Cell(0, 7, tr("Over budget by $"+formatMoney(utilization.BudgetDifference)))
	} else {
		pdf.SetTextColor(30, 140, 60)
		pdf.Cell(0, 7, tr("Under budget by $"+formatMoney(utilization.BudgetDifference)))
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(12)

	if len(qrPNG) > 0 {
		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("share-qr", imageOpts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("share-qr", 160, 10, 35, 35, false, imageOpts, 0, "")
	}

	for _, day := range itinerary.Days {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, tr(fmt.Sprintf("Day %d - %s", day.Day, day.Date)), "B", 1, "L", false, 0, "")
		pdf.Ln(2)

		for _, activity := range day.Activities {
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(22, 6, tr(activity.Time), "", 0, "L", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(128, 6, tr(activity.Activity), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, tr("$"+formatInt64(activity.Cost)), "", 1, "R", false, 0, "")

			pdf.SetFont("Arial", "I", 9)
			pdf.CellFormat(22, 5, "", "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 5, tr(activity.Location), "", 1, "L", false, 0, "")

			if activity.WeatherForecast != "" {
				pdf.CellFormat(22, 5, "", "", 0, "L", false, 0, "")
				pdf.CellFormat(0, 5, tr("Weather: "+activity.WeatherForecast), "", 1, "L", false, 0, "")
			}
			if activity.Notes != "" {
				pdf.CellFormat(22, 5, "", "", 0, "L", false, 0, "")
				pdf.CellFormat(0, 5, tr("Note: "+activity.Notes), "", 1, "L", false, 0, "")
			}
			pdf.Ln(2)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatInt64(value int64) string {
	return strconv.FormatInt(value, 10)
}

func formatInt(value int) string {
	return strconv.Itoa(value)
}

func formatMoney(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
