package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawpoint/vetclinic/internal/audit"
	"github.com/pawpoint/vetclinic/internal/models"
)

// PageViewAudit records staff page views on audited sections. It runs
// after auth resolution and writes once the handler chain finishes, so
// only successful GETs are recorded. An audit write failure is logged
// and never surfaces to the client: the page they saw already rendered.
func PageViewAudit(recorder *audit.Recorder, classifier *audit.Classifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodGet || c.Writer.Status() != http.StatusOK {
			return
		}

		actor := ActorFromContext(c)
		if actor == nil || !actor.Staff() {
			return
		}

		path := c.Request.URL.Path
		resourceType, sensitivity, ok := classifier.Classify(path)
		if !ok {
			return
		}

		err := recorder.Log(c.Request.Context(), audit.LogInput{
			Actor:        actor,
			Action:       models.ActionView,
			ResourceType: resourceType,
			ResourceID:   classifier.ResourceID(path),
			Request:      c.Request,
			Sensitivity:  sensitivity,
		})
		if err != nil {
			log.Printf("page view audit failed for %s: %v", path, err)
		}
	}
}
