package actions

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/models"
	"github.com/trackerp/fleet-api/pdf"
)

// swagger:operation GET /reports/{type}/{id} Reports ReportsView
// ReportsView
//
// printable registration sheet for one record. The type segment matches the
// resource route name (entities, service-providers, technicians, vehicles).
// ---
//
//	responses:
//	  '200':
//	    description: an application/pdf stream
func reportsView(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return reportError(c, api.NewAppError(err, api.ErrorMustBeAValidUUID, api.CategoryUser))
	}

	resourceType := c.Param("type")
	title, sections, err := registrationSections(tx, actor, resourceType, id)
	if err != nil {
		return reportError(c, err)
	}

	content, err := pdf.RegistrationSheet(title, sections)
	if err != nil {
		return reportError(c, api.NewAppError(err, api.ErrorRenderingPDF, api.CategoryInternal))
	}

	filename := fmt.Sprintf("%s-%s.pdf", resourceType, id)
	response := c.Response()
	response.Header().Set("Content-Type", "application/pdf")
	response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	response.WriteHeader(http.StatusOK)
	_, err = response.Write(content)
	return err
}

// registrationSections loads one record, checks the actor can view it, and
// lays its fields out for the sheet
func registrationSections(tx *pop.Connection, actor models.User, resourceType string, id uuid.UUID) (string, []pdf.Section, error) {
	switch resourceType {
	case domain.TypeEntity:
		var entity models.Entity
		if err := entity.FindByID(tx, id); err != nil {
			return "", nil, api.NewAppError(err, api.ErrorResourceNotFound, api.CategoryNotFound)
		}
		if !entity.IsActorAllowedTo(tx, actor, models.PermissionView, "") {
			return "", nil, notAllowedToPrint()
		}
		if err := entity.LoadSubsidiaries(tx); err != nil {
			return "", nil, err
		}
		return entitySheet(entity.ConvertToAPI(tx, true))

	case domain.TypeServiceProvider:
		var provider models.ServiceProvider
		if err := provider.FindByID(tx, id); err != nil {
			return "", nil, api.NewAppError(err, api.ErrorResourceNotFound, api.CategoryNotFound)
		}
		if !provider.IsActorAllowedTo(tx, actor, models.PermissionView, "") {
			return "", nil, notAllowedToPrint()
		}
		if err := provider.LoadChildren(tx); err != nil {
			return "", nil, err
		}
		return providerSheet(provider.ConvertToAPI(tx, true))

	case domain.TypeTechnician:
		var technician models.Technician
		if err := technician.FindByID(tx, id); err != nil {
			return "", nil, api.NewAppError(err, api.ErrorResourceNotFound, api.CategoryNotFound)
		}
		if !technician.IsActorAllowedTo(tx, actor, models.PermissionView, "") {
			return "", nil, notAllowedToPrint()
		}
		if err := technician.LoadChildren(tx); err != nil {
			return "", nil, err
		}
		return technicianSheet(technician.ConvertToAPI(tx, true))

	case domain.TypeVehicle:
		var vehicle models.Vehicle
		if err := vehicle.FindByID(tx, id); err != nil {
			return "", nil, api.NewAppError(err, api.ErrorResourceNotFound, api.CategoryNotFound)
		}
		if !vehicle.IsActorAllowedTo(tx, actor, models.PermissionView, "") {
			return "", nil, notAllowedToPrint()
		}
		if err := vehicle.LoadChildren(tx); err != nil {
			return "", nil, err
		}
		return vehicleSheet(vehicle.ConvertToAPI(tx, true))
	}

	err := fmt.Errorf("no registration sheet for %q", resourceType)
	return "", nil, api.NewAppError(err, api.ErrorResourceNotFound, api.CategoryNotFound)
}

func notAllowedToPrint() error {
	err := errors.New("actor not allowed to print this resource")
	return api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryForbidden)
}

func entitySheet(entity api.Entity) (string, []pdf.Section, error) {
	sections := []pdf.Section{{
		Fields: []pdf.Field{
			{Label: "Name", Value: entity.Name},
			{Label: "Trading name", Value: entity.TradingName},
			{Label: "Document", Value: entity.Document},
			{Label: "Roles", Value: entityRoles(entity)},
			{Label: "Blocked", Value: yesNo(entity.Blocked)},
		},
	}}

	for _, sub := range entity.Subsidiaries {
		fields := []pdf.Field{
			{Label: "Address", Value: sub.Address},
			{Label: "District", Value: sub.District},
			{Label: "City / State", Value: fmt.Sprintf("%s / %s", sub.City, sub.State)},
			{Label: "Postal code", Value: sub.PostalCode},
			{Label: "State registration", Value: sub.StateRegistration},
		}
		for _, phone := range sub.Phones {
			fields = append(fields, pdf.Field{Label: "Phone", Value: phone.Number})
		}
		for _, mailing := range sub.Mailings {
			fields = append(fields, pdf.Field{Label: "Email", Value: mailing.Address})
		}
		for _, contact := range sub.Contacts {
			fields = append(fields, pdf.Field{
				Label: "Contact",
				Value: fmt.Sprintf("%s %s %s", contact.Name, contact.Phone, contact.Email),
			})
		}
		sections = append(sections, pdf.Section{Title: "Subsidiary " + sub.Name, Fields: fields})
	}

	return "Entity " + entity.Name, sections, nil
}

func providerSheet(provider api.ServiceProvider) (string, []pdf.Section, error) {
	sections := []pdf.Section{{
		Fields: []pdf.Field{
			{Label: "Occupation area", Value: provider.OccupationArea},
			{Label: "Visit fee", Value: provider.VisitFee.String()},
			{Label: "Latitude", Value: strconv.FormatFloat(provider.Latitude, 'f', -1, 64)},
			{Label: "Longitude", Value: strconv.FormatFloat(provider.Longitude, 'f', -1, 64)},
		},
	}}

	accountFields := make([]pdf.Field, len(provider.Accounts))
	for i, account := range provider.Accounts {
		value := fmt.Sprintf("%s %s %s", account.BankCode, account.Branch, account.Number)
		if account.Type == api.AccountTypePix {
			value = "PIX " + account.PixKey
		}
		accountFields[i] = pdf.Field{Label: string(account.Type), Value: value}
	}
	if len(accountFields) > 0 {
		sections = append(sections, pdf.Section{Title: "Accounts", Fields: accountFields})
	}

	priceFields := make([]pdf.Field, len(provider.ServicePrices))
	for i, price := range provider.ServicePrices {
		priceFields[i] = pdf.Field{Label: price.BillingType, Value: price.Value.String()}
	}
	if len(priceFields) > 0 {
		sections = append(sections, pdf.Section{Title: "Service prices", Fields: priceFields})
	}

	tierFields := make([]pdf.Field, len(provider.DisplacementTiers))
	for i, tier := range provider.DisplacementTiers {
		tierFields[i] = pdf.Field{
			Label: fmt.Sprintf("%d-%d km", tier.FromKm, tier.ToKm),
			Value: tier.Value.String(),
		}
	}
	if len(tierFields) > 0 {
		sections = append(sections, pdf.Section{Title: "Displacement tiers", Fields: tierFields})
	}

	return "Service provider", sections, nil
}

func technicianSheet(technician api.Technician) (string, []pdf.Section, error) {
	fields := []pdf.Field{
		{Label: "Name", Value: technician.Name},
		{Label: "Document", Value: technician.Document},
		{Label: "Vehicle", Value: fmt.Sprintf("%s %s %s",
			technician.VehicleMake, technician.VehicleModel, technician.VehiclePlate)},
		{Label: "Blocked", Value: yesNo(technician.Blocked)},
	}
	for _, phone := range technician.Phones {
		fields = append(fields, pdf.Field{Label: "Phone", Value: phone.Number})
	}
	for _, mailing := range technician.Mailings {
		fields = append(fields, pdf.Field{Label: "Email", Value: mailing.Address})
	}

	return "Technician " + technician.Name, []pdf.Section{{Fields: fields}}, nil
}

func vehicleSheet(vehicle api.Vehicle) (string, []pdf.Section, error) {
	fields := []pdf.Field{
		{Label: "Plate", Value: vehicle.Plate},
		{Label: "VIN", Value: vehicle.Vin},
		{Label: "Make / Model", Value: fmt.Sprintf("%s / %s", vehicle.Make, vehicle.Model)},
		{Label: "Model year", Value: strconv.Itoa(vehicle.ModelYear)},
		{Label: "Color", Value: vehicle.Color},
		{Label: "Owner", Value: vehicle.OwnerName},
		{Label: "Monitored", Value: yesNo(vehicle.Monitored)},
	}
	sections := []pdf.Section{{Fields: fields}}

	equipmentFields := make([]pdf.Field, len(vehicle.Equipments))
	for i, equipment := range vehicle.Equipments {
		equipmentFields[i] = pdf.Field{Label: equipment.Serial, Value: equipment.Model}
	}
	if len(equipmentFields) > 0 {
		sections = append(sections, pdf.Section{Title: "Equipment", Fields: equipmentFields})
	}

	return "Vehicle " + vehicle.Plate, sections, nil
}

func entityRoles(entity api.Entity) string {
	roles := ""
	appendRole := func(flag bool, name string) {
		if !flag {
			return
		}
		if roles != "" {
			roles += ", "
		}
		roles += name
	}
	appendRole(entity.Customer, "customer")
	appendRole(entity.Supplier, "supplier")
	appendRole(entity.ServiceProvider, "service provider")
	appendRole(entity.Association, "association")
	return roles
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
