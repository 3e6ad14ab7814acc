package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/whatsapp-order-bot/export"
	"github.com/kendall-kelly/whatsapp-order-bot/services"
	"github.com/kendall-kelly/whatsapp-order-bot/utils"
	log "github.com/sirupsen/logrus"
)

func exportService() *services.ExportService {
	return services.NewExportService(orderStore(), utils.ExportDir, services.GetS3Service())
}

// parseExportFormat reads ?format, writing an error response when it is unknown
func parseExportFormat(c *gin.Context) (export.Format, bool) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FORMAT",
				"message": "Format must be csv or xlsx",
			},
		})
		return "", false
	}
	return format, true
}

// DownloadOrders handles GET /api/v1/orders/export?format=csv|xlsx - streams every order as a file
func DownloadOrders(c *gin.Context) {
	format, ok := parseExportFormat(c)
	if !ok {
		return
	}

	content, _, err := exportService().Render(format)
	if err != nil {
		respondOrderError(c, err, "Failed to export orders")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+format.FileName(reportNow())+`"`)
	c.Data(http.StatusOK, format.ContentType(), content)
}

// CreateExport handles POST /api/v1/exports?format=csv|xlsx - saves an export
// on the server and archives it to S3 when a bucket is configured
func CreateExport(c *gin.Context) {
	format, ok := parseExportFormat(c)
	if !ok {
		return
	}

	result, err := exportService().Create(c.Request.Context(), format)
	if err != nil {
		var storeErr *services.StorageError
		if errors.As(err, &storeErr) {
			respondOrderError(c, err, "Failed to export orders")
			return
		}
		log.WithError(err).Error("Failed to save export")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_FAILED",
				"message": "Failed to save export",
			},
		})
		return
	}

	log.WithFields(log.Fields{"filename": result.Filename, "orders": result.OrderCount, "archived": result.ArchiveKey != ""}).Info("Export created")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}

// GetExportFile handles GET /api/v1/exports/:filename - serves a saved export
func GetExportFile(c *gin.Context) {
	filename := c.Param("filename")
	if !validExportFilename(c, filename) {
		return
	}

	filePath := utils.ExportPath(filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_NOT_FOUND",
				"message": "Export not found",
			},
		})
		return
	}

	format := export.FormatCSV
	if strings.ToLower(filepath.Ext(filename)) != export.FormatCSV.Extension() {
		format = export.FormatXLSX
	}

	c.Header("Content-Type", format.ContentType())
	c.FileAttachment(filePath, filename)
}

// DeleteExportFile handles DELETE /api/v1/exports/:filename - removes a saved export and its S3 copy
func DeleteExportFile(c *gin.Context) {
	filename := c.Param("filename")
	if !validExportFilename(c, filename) {
		return
	}

	if err := exportService().Delete(c.Request.Context(), filename); err != nil {
		if errors.Is(err, services.ErrExportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FILE_NOT_FOUND",
					"message": "Export not found",
				},
			})
			return
		}

		log.WithError(err).WithField("filename", filename).Error("Failed to delete export")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_FAILED",
				"message": "Failed to delete export",
			},
		})
		return
	}

	log.WithField("filename", filename).Info("Export deleted")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Export deleted",
	})
}

// validExportFilename writes a 400 response when filename is not a servable export
func validExportFilename(c *gin.Context, filename string) bool {
	err := utils.ValidateExportFilename(filename)
	if err == nil {
		return true
	}

	code := "INVALID_FILENAME"
	var fileErr *utils.ExportFileError
	if errors.As(err, &fileErr) {
		code = fileErr.Code
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
	})
	return false
}
