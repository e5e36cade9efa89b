package actions

import (
	"net/http"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/trackerp/fleet-api/models"
)

func (as *ActionSuite) Test_parseResourcePath() {
	id := uuid.FromStringOrNil("b25c0e49-ffdb-4589-a07e-9e27c036ff3c")

	tests := []struct {
		name string
		path string
		want resourcePath
	}{
		{
			name: "collection",
			path: "/vehicles",
			want: resourcePath{name: "vehicles", depth: 1},
		},
		{
			name: "collection without leading slash",
			path: "vehicles",
			want: resourcePath{name: "vehicles", depth: 1},
		},
		{
			name: "record",
			path: "/vehicles/" + id.String(),
			want: resourcePath{name: "vehicles", id: id, depth: 2},
		},
		{
			name: "sub-resource",
			path: "/vehicles/" + id.String() + "/transfer",
			want: resourcePath{name: "vehicles", id: id, sub: "transfer", depth: 3},
		},
		{
			name: "sub-resource of a bad ID is dropped",
			path: "/vehicles/abc123/transfer",
			want: resourcePath{name: "vehicles", depth: 3},
		},
		{
			name: "bad ID",
			path: "/vehicles/abc123",
			want: resourcePath{name: "vehicles", depth: 2},
		},
		{
			name: "trailing slash",
			path: "/vehicles/abc123/",
			want: resourcePath{name: "vehicles", depth: 2},
		},
		{
			name: "empty",
			path: "",
			want: resourcePath{},
		},
	}
	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseResourcePath(tt.path))
		})
	}
}

func (as *ActionSuite) Test_permissionForRequest() {
	tests := []struct {
		method string
		hasID  bool
		want   models.Permission
	}{
		{method: http.MethodGet, hasID: false, want: models.PermissionList},
		{method: http.MethodGet, hasID: true, want: models.PermissionView},
		{method: http.MethodPost, hasID: false, want: models.PermissionCreate},
		{method: http.MethodPut, hasID: true, want: models.PermissionUpdate},
		{method: http.MethodDelete, hasID: true, want: models.PermissionDelete},
		{method: http.MethodPatch, hasID: true, want: models.PermissionDenied},
	}
	for _, tt := range tests {
		as.Equal(tt.want, permissionForRequest(tt.method, tt.hasID), tt.method)
	}
}
