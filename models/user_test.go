package models

import (
	"testing"
)

func (ms *ModelSuite) TestUser_Validate() {
	t := ms.T()
	contractor := CreateContractorFixture(ms.DB)

	tests := []struct {
		name     string
		user     User
		wantErr  bool
		errField string
	}{
		{
			name: "minimum",
			user: User{
				ContractorID: contractor.ID,
				Email:        "user@example.com",
				AppRole:      AppRoleCustomer,
			},
			wantErr: false,
		},
		{
			name: "missing email",
			user: User{
				ContractorID: contractor.ID,
				AppRole:      AppRoleCustomer,
			},
			wantErr:  true,
			errField: "User.Email",
		},
		{
			name: "missing contractor",
			user: User{
				Email:   "user@example.com",
				AppRole: AppRoleCustomer,
			},
			wantErr:  true,
			errField: "User.ContractorID",
		},
		{
			name: "bad role",
			user: User{
				ContractorID: contractor.ID,
				Email:        "user@example.com",
				AppRole:      UserAppRole("Overlord"),
			},
			wantErr:  true,
			errField: "User.AppRole",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vErr, _ := tt.user.Validate(DB)
			if tt.wantErr {
				if vErr.Count() == 0 {
					t.Errorf("Expected an error, but did not get one")
				} else if len(vErr.Get(tt.errField)) == 0 {
					t.Errorf("Expected an error on field %v, but got none (errors: %+v)", tt.errField, vErr.Errors)
				}
			} else if vErr.HasAny() {
				t.Errorf("Unexpected error: %+v", vErr)
			}
		})
	}
}

func (ms *ModelSuite) TestUser_IsActorAllowedTo() {
	admin := CreateUserFixtures(ms.DB, 2).Users[0]
	otherAdmin := CreateUserFixtures(ms.DB, 1).Users[0]

	customer := User{
		ContractorID: admin.ContractorID,
		Email:        "customer@example.com",
		AppRole:      AppRoleCustomer,
	}
	MustCreate(ms.DB, &customer)

	tests := []struct {
		name     string
		actor    User
		target   User
		perm     Permission
		expected bool
	}{
		{
			name:     "admin views user under same contractor",
			actor:    admin,
			target:   customer,
			perm:     PermissionView,
			expected: true,
		},
		{
			name:     "admin from other contractor denied",
			actor:    otherAdmin,
			target:   customer,
			perm:     PermissionView,
			expected: false,
		},
		{
			name:     "customer updates self",
			actor:    customer,
			target:   customer,
			perm:     PermissionUpdate,
			expected: true,
		},
		{
			name:     "customer cannot update admin",
			actor:    customer,
			target:   admin,
			perm:     PermissionUpdate,
			expected: false,
		},
		{
			name:     "customer cannot create",
			actor:    customer,
			target:   User{},
			perm:     PermissionCreate,
			expected: false,
		},
		{
			name:     "admin lists collection",
			actor:    admin,
			target:   User{},
			perm:     PermissionList,
			expected: true,
		},
	}
	for _, tt := range tests {
		ms.T().Run(tt.name, func(t *testing.T) {
			got := tt.target.IsActorAllowedTo(ms.DB, tt.actor, tt.perm, SubResourceNone)
			ms.Equal(tt.expected, got)
		})
	}
}

func (ms *ModelSuite) TestUser_ConvertToAPI() {
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	got := user.ConvertToAPI()

	ms.Equal(user.ID, got.ID, "ID is not correct")
	ms.Equal(user.Email, got.Email, "Email is not correct")
	ms.Equal(user.FirstName, got.FirstName, "FirstName is not correct")
	ms.Equal(user.LastName, got.LastName, "LastName is not correct")
	ms.Equal(string(user.AppRole), got.AppRole, "AppRole is not correct")
	ms.Nil(got.EntityID, "EntityID should be nil for an unrestricted user")
	ms.Equal(user.LastLoginUTC, got.LastLoginUTC, "LastLoginUTC is not correct")
}
