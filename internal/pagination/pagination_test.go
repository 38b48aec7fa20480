package pagination

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spaceship-fleet/maintenance-portal/internal/apierr"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/items?"+query, nil)
	return c
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Page
	}{
		{"defaults", "", Page{Number: 0, Size: DefaultSize}},
		{"explicit", "page=3&size=5", Page{Number: 3, Size: 5}},
		{"negative page", "page=-2", Page{Number: 0, Size: DefaultSize}},
		{"zero size", "size=0", Page{Number: 0, Size: DefaultSize}},
		{"capped size", "size=50000", Page{Number: 0, Size: MaxSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromQuery(contextWithQuery(tt.query))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromQuery_RejectsNonNumeric(t *testing.T) {
	_, err := FromQuery(contextWithQuery("page=first"))
	require.Error(t, err)
	assert.Equal(t, "invalid.parameter.type.error", apierr.From(err).Message)

	_, err = FromQuery(contextWithQuery("size=lots"))
	assert.ErrorIs(t, err, apierr.InvalidParameterType("size", "integer"))
}

func TestFromQuery_RejectsOverflowingPage(t *testing.T) {
	_, err := FromQuery(contextWithQuery("page=" + strconv.Itoa(math.MaxInt) + "&size=20"))
	require.Error(t, err)
	assert.Equal(t, "validation.error", apierr.From(err).Message)

	last := math.MaxInt / MaxSize
	page, err := FromQuery(contextWithQuery("page=" + strconv.Itoa(last) + "&size=" + strconv.Itoa(MaxSize)))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, page.Offset(), 0)
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, 0, Page{Number: 0, Size: 20}.Offset())
	assert.Equal(t, 40, Page{Number: 2, Size: 20}.Offset())
}
