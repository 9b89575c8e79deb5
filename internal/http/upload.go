package http

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/policydesk/polgw/internal/importer"
	"github.com/policydesk/polgw/internal/util"
)

func uploadHandler(imp *importer.Importer) echo.HandlerFunc {
	return func(c echo.Context) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "no file uploaded"})
		}

		// spool to a temp file; removed on every path
		tmpPath := filepath.Join(os.TempDir(), "polgw-upload-"+util.NewULID())
		if err := saveUpload(fh, tmpPath); err != nil {
			log.Errorf("save upload: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "upload failed"})
		}
		defer func() { _ = os.Remove(tmpPath) }()

		f, err := os.Open(tmpPath)
		if err != nil {
			log.Errorf("open upload: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "upload failed"})
		}
		defer f.Close()

		res, err := imp.ImportCSV(c.Request().Context(), f)
		if err != nil {
			log.Errorf("import failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "import failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"message":  "Upload successful",
			"imported": res.Imported,
			"skipped":  res.Skipped,
		})
	}
}

func saveUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
