package actions

import (
	"net/http"
	"testing"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/models"
)

func (as *ActionSuite) Test_authDestroy() {
	f := models.CreateUserFixtures(as.DB, 1)
	user := f.Users[0]

	tests := []struct {
		name         string
		queryParams  string
		wantStatus   int
		wantContains string
	}{
		{
			name:         "missing token param",
			queryParams:  "",
			wantStatus:   http.StatusBadRequest,
			wantContains: string(api.ErrorDeletingAccessToken),
		},
		{
			// the fixture access token is the user's email
			name:        "valid token",
			queryParams: LogoutToken + "=" + user.Email,
			wantStatus:  http.StatusFound,
		},
	}
	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			res := as.JSON("/auth/logout?" + tt.queryParams).Get()
			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			if tt.wantContains != "" {
				as.Contains(body, tt.wantContains, "incorrect response body")
			}
		})
	}

	var tokens models.UserAccessTokens
	as.NoError(as.DB.All(&tokens))
	as.Len(tokens, 0, "access token should have been deleted on logout")
}
