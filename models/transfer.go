package models

import (
	"errors"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
)

// Transfer moves one equipment unit from its current
// customer/subsidiary/payer/installation tuple to a new one as of a date.
// Every step runs in the caller's transaction, an error anywhere rolls the
// whole move back.
type Transfer struct {
	Actor     User
	Equipment Equipment
	Vehicle   Vehicle

	oldInstallation Installation
	oldContract     Contract
	oldCustomer     Entity
	oldSubsidiary   Subsidiary
	oldPayer        Entity

	newInstallation Installation
	newCustomer     Entity
	newSubsidiary   Subsidiary
	newPayer        Entity

	transferAt time.Time
	close      bool
	terminate  bool
}

// NewTransfer loads and checks everything the move needs. The equipment
// must be in service under the actor's contractor, the destination tuple
// must resolve, and it must differ from the current one.
func NewTransfer(tx *pop.Connection, actor User, input api.TransferInput) (Transfer, error) {
	t := Transfer{Actor: actor}

	at, err := time.Parse(domain.DateFormat, input.TransferAt)
	if err != nil {
		return t, api.NewAppError(err, api.ErrorTransferInvalidDate, api.CategoryUser)
	}
	t.transferAt = domain.DateOnly(at)
	t.terminate = input.Terminate
	t.close = input.Close || (input.Terminate && !input.NotClose)

	if err := t.Equipment.FindByID(tx, input.EquipmentID); err != nil {
		return t, api.NewAppError(err, api.ErrorTransferEquipmentNotFound, api.CategoryNotFound)
	}
	if t.Equipment.ContractorID != actor.ContractorID {
		return t, api.NewAppError(
			errors.New("equipment is outside the actor's contractor"),
			api.ErrorNotAuthorized, api.CategoryForbidden)
	}
	if !t.Equipment.InService() || !t.Equipment.InstallationID.Valid {
		return t, api.NewAppError(
			errors.New("equipment is not installed on a vehicle"),
			api.ErrorTransferEquipmentNotFound, api.CategoryUser)
	}

	if err := t.Vehicle.FindByID(tx, t.Equipment.VehicleID.UUID); err != nil {
		return t, err
	}

	// current tuple
	if err := t.oldInstallation.FindByID(tx, t.Equipment.InstallationID.UUID); err != nil {
		return t, err
	}
	if err := t.oldContract.FindByID(tx, t.oldInstallation.ContractID); err != nil {
		return t, err
	}
	if err := t.oldCustomer.FindByID(tx, t.oldContract.EntityID); err != nil {
		return t, err
	}
	if err := t.oldSubsidiary.FindByID(tx, t.oldContract.SubsidiaryID); err != nil {
		return t, err
	}
	if err := t.oldPayer.FindByID(tx, t.oldInstallation.PayerID); err != nil {
		return t, err
	}

	// target tuple
	if err := t.newInstallation.FindByID(tx, input.InstallationID); err != nil {
		return t, api.NewAppError(err, api.ErrorTransferMissingInstallation, api.CategoryUser)
	}
	t.newCustomer, t.newSubsidiary, err = customerDestination(tx, actor, input.EntityID, input.SubsidiaryID)
	if err != nil {
		return t, err
	}
	if err := t.newPayer.FindByID(tx, input.PayerID); err != nil {
		return t, err
	}
	if t.newPayer.ContractorID != actor.ContractorID {
		return t, api.NewAppError(
			errors.New("payer is outside the actor's contractor"),
			api.ErrorNotAuthorized, api.CategoryForbidden)
	}

	sameTuple := t.newCustomer.ID == t.oldCustomer.ID &&
		t.newSubsidiary.ID == t.oldSubsidiary.ID &&
		t.newPayer.ID == t.oldPayer.ID &&
		t.newInstallation.ID == t.oldInstallation.ID
	if sameTuple {
		return t, api.NewAppError(
			errors.New("destination tuple equals the current one"),
			api.ErrorTransferSameDestination, api.CategoryUser)
	}

	return t, nil
}

// Execute runs the transfer sequence inside tx.
func (t *Transfer) Execute(tx *pop.Connection) error {
	// 1. leave the outgoing association, when the old payer is one
	if t.oldPayer.Association {
		err := AffiliationUnjoin(tx, t.oldPayer.ID, t.oldCustomer.ID, t.oldSubsidiary.ID, t.transferAt)
		if err != nil {
			return err
		}
	}

	// 2. close the physical history line
	var record InstallationRecord
	if err := record.OpenForEquipment(tx, t.Equipment.ID); err != nil {
		return err
	}
	if err := record.CloseAt(tx, t.transferAt); err != nil {
		return err
	}

	// 3. end-date the prior line item when requested
	if t.close && t.oldInstallation.IsOpen() {
		if err := t.oldInstallation.Close(tx, t.transferAt); err != nil {
			return err
		}
	}

	// 4. end-date the prior contract and block a customer left with nothing
	if t.terminate {
		if err := t.oldContract.Terminate(tx, t.transferAt); err != nil {
			return err
		}
		if err := t.blockAbandonedCustomer(tx); err != nil {
			return err
		}
	}

	// 5. open the new history line and seed the line item's start date
	fresh := InstallationRecord{
		InstallationID: t.newInstallation.ID,
		EquipmentID:    t.Equipment.ID,
		VehicleID:      t.Vehicle.ID,
		InstalledAt:    t.transferAt,
	}
	if err := fresh.Create(tx); err != nil {
		return err
	}
	if err := t.newInstallation.SeedStart(tx, t.transferAt); err != nil {
		return err
	}

	t.Equipment.InstallationID = nulls.NewUUID(t.newInstallation.ID)
	if err := t.Equipment.Update(tx); err != nil {
		return err
	}
	t.Vehicle.EntityID = t.newCustomer.ID
	t.Vehicle.SubsidiaryID = t.newSubsidiary.ID
	if err := t.Vehicle.Update(tx); err != nil {
		return err
	}

	// 6. join the incoming association, when the new payer is one
	if t.newPayer.Association {
		_, err := AffiliationJoin(tx, t.newPayer.ID, t.newCustomer.ID, t.newSubsidiary.ID, t.transferAt)
		if err != nil {
			return err
		}
	}

	// 7. refresh the monitoring projection and tell the listeners
	if err := RefreshForEquipment(tx, t.Equipment.ID); err != nil {
		return err
	}
	e := events.Event{
		Kind:    domain.EventApiEquipmentTransferred,
		Message: "equipment transferred",
		Payload: events.Payload{domain.EventPayloadID: t.Equipment.ID},
	}
	emitEvent(e)

	return nil
}

// blockAbandonedCustomer blocks the losing customer when the terminated
// contract was their only one with open line items and no monitored
// vehicle remains under them. The transferred vehicle itself does not count
// as remaining; it is still owned by the old customer at this step.
func (t *Transfer) blockAbandonedCustomer(tx *pop.Connection) error {
	active, err := ActiveCountForEntity(tx, t.oldCustomer.ID, t.Vehicle.ID)
	if err != nil {
		return err
	}
	if active > 0 {
		return nil
	}

	remaining, err := t.oldContract.ActiveInstallationCount(tx)
	if err != nil {
		return err
	}
	others, err := tx.Where(
		"entity_id = ? AND end_at IS NULL AND id != ?", t.oldCustomer.ID, t.oldContract.ID).
		Count(&Contract{})
	if err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	if remaining == 0 && others == 0 {
		return t.oldCustomer.SetBlocked(tx, true)
	}
	return nil
}

// Replacement swaps the tracker unit on a vehicle without touching the
// contract. The old unit goes to a deposit, the new one takes over the
// installation, the history and the cross-reference tables.
type Replacement struct {
	Actor        User
	OldEquipment Equipment
	NewEquipment Equipment
	Vehicle      Vehicle
	Deposit      Deposit

	replacedAt time.Time
}

// NewReplacement loads and checks the swap. The old unit must be in
// service, the new one free, both under the actor's contractor.
func NewReplacement(tx *pop.Connection, actor User, input api.ReplacementInput) (Replacement, error) {
	r := Replacement{Actor: actor}

	at, err := time.Parse(domain.DateFormat, input.ReplacedAt)
	if err != nil {
		return r, api.NewAppError(err, api.ErrorTransferInvalidDate, api.CategoryUser)
	}
	r.replacedAt = domain.DateOnly(at)

	if err := r.OldEquipment.FindByID(tx, input.OldEquipmentID); err != nil {
		return r, api.NewAppError(err, api.ErrorTransferEquipmentNotFound, api.CategoryNotFound)
	}
	if err := r.NewEquipment.FindByID(tx, input.NewEquipmentID); err != nil {
		return r, api.NewAppError(err, api.ErrorReplacementEquipmentMissing, api.CategoryNotFound)
	}
	if r.OldEquipment.ContractorID != actor.ContractorID ||
		r.NewEquipment.ContractorID != actor.ContractorID {
		return r, api.NewAppError(
			errors.New("equipment is outside the actor's contractor"),
			api.ErrorNotAuthorized, api.CategoryForbidden)
	}
	if !r.OldEquipment.InService() || !r.OldEquipment.InstallationID.Valid {
		return r, api.NewAppError(
			errors.New("old equipment is not installed on a vehicle"),
			api.ErrorTransferEquipmentNotFound, api.CategoryUser)
	}
	if r.NewEquipment.InService() {
		return r, api.NewAppError(
			errors.New("replacement equipment is already in service"),
			api.ErrorReplacementEquipmentInUse, api.CategoryUser)
	}

	if err := r.Vehicle.FindByID(tx, r.OldEquipment.VehicleID.UUID); err != nil {
		return r, err
	}

	if err := r.Deposit.FindByID(tx, input.DepositID); err != nil {
		return r, err
	}
	if r.Deposit.ContractorID != actor.ContractorID {
		return r, api.NewAppError(
			errors.New("deposit is outside the actor's contractor"),
			api.ErrorNotAuthorized, api.CategoryForbidden)
	}

	return r, nil
}

// Execute runs the swap inside tx.
func (r *Replacement) Execute(tx *pop.Connection) error {
	vehicleID := r.OldEquipment.VehicleID
	installationID := r.OldEquipment.InstallationID

	var record InstallationRecord
	if err := record.OpenForEquipment(tx, r.OldEquipment.ID); err != nil {
		return err
	}
	if err := record.CloseAt(tx, r.replacedAt); err != nil {
		return err
	}

	// the new unit inherits the slot and the site descriptors
	r.NewEquipment.VehicleID = vehicleID
	r.NewEquipment.InstallationID = installationID
	r.NewEquipment.DepositID = nulls.UUID{}
	r.NewEquipment.IButtonMemory = r.OldEquipment.IButtonMemory
	r.NewEquipment.SiteWiring = r.OldEquipment.SiteWiring
	if err := r.NewEquipment.Update(tx); err != nil {
		return err
	}

	r.OldEquipment.VehicleID = nulls.UUID{}
	r.OldEquipment.InstallationID = nulls.UUID{}
	r.OldEquipment.DepositID = nulls.NewUUID(r.Deposit.ID)
	if err := r.OldEquipment.Update(tx); err != nil {
		return err
	}

	fresh := InstallationRecord{
		InstallationID: installationID.UUID,
		EquipmentID:    r.NewEquipment.ID,
		VehicleID:      vehicleID.UUID,
		InstalledAt:    r.replacedAt,
	}
	if err := fresh.Create(tx); err != nil {
		return err
	}

	// repoint integrations and per-user grants to the new unit
	for _, table := range []string{"integration_queue", "authorization_grants"} {
		err := tx.RawQuery(
			"UPDATE "+table+" SET equipment_id = ? WHERE equipment_id = ?",
			r.NewEquipment.ID, r.OldEquipment.ID).Exec()
		if err != nil {
			return appErrorFromDB(err, api.ErrorUpdateFailure)
		}
	}

	if err := RefreshForEquipment(tx, r.OldEquipment.ID); err != nil {
		return err
	}
	if err := RefreshForEquipment(tx, r.NewEquipment.ID); err != nil {
		return err
	}
	e := events.Event{
		Kind:    domain.EventApiEquipmentReplaced,
		Message: "equipment replaced",
		Payload: events.Payload{domain.EventPayloadID: r.NewEquipment.ID},
	}
	emitEvent(e)

	return nil
}
