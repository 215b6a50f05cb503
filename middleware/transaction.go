package middleware

import (
	"bytes"
	"net/http"

	"conduit-api/helper"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const dbKey = "db"

// txWriter holds the response body back until the transaction outcome is
// known, so a failed commit can still be reported to the client.
type txWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *txWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *txWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// Transaction wraps every request in one database transaction. It commits
// when the handler finished with a status below 400 and no recorded gin
// error. Anything else, including a panic, rolls back.
func Transaction(db *gorm.DB, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx := db.WithContext(c.Request.Context()).Begin()
		if tx.Error != nil {
			h.SendError(c, tx.Error)
			c.Abort()
			return
		}

		original := c.Writer
		writer := &txWriter{ResponseWriter: original}
		c.Writer = writer
		SetDB(c, tx)

		finished := false
		defer func() {
			c.Writer = original
			if !finished {
				tx.Rollback()
			}
		}()

		c.Next()
		finished = true

		if c.Writer.Status() >= http.StatusBadRequest {
			tx.Rollback()
			original.Write(writer.body.Bytes())
			return
		}

		// A recorded error with a success status must not reach the client as
		// success once its writes are gone.
		if err := c.Errors.Last(); err != nil {
			tx.Rollback()
			c.Writer = original
			original.Header().Del("Content-Length")
			h.Logger.Errorw("request failed after writing", "path", c.FullPath(), "error", err.Err)
			h.SendError(c, err.Err)
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.Writer = original
			original.Header().Del("Content-Length")
			h.Logger.Errorw("transaction commit failed", "path", c.FullPath(), "error", err)
			h.SendError(c, err)
			return
		}
		original.Write(writer.body.Bytes())
	}
}

// SetDB binds a session to the request.
func SetDB(c *gin.Context, db *gorm.DB) {
	c.Set(dbKey, db)
}

// DB returns the request's transaction. Handlers must only run behind
// Transaction.
func DB(c *gin.Context) *gorm.DB {
	return c.MustGet(dbKey).(*gorm.DB)
}
