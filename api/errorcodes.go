package api

const (
	CategoryDatabase     = ErrorCategory("Database")
	CategoryUser         = ErrorCategory("User") // used for errors related to user input, validation, etc.
	CategoryForbidden    = ErrorCategory("Forbidden")
	CategoryUnauthorized = ErrorCategory("Unauthorized")
	CategoryNotFound     = ErrorCategory("NotFound")
	CategoryConflict     = ErrorCategory("Conflict") // used for stale-record and duplicate-state errors
	CategoryInternal     = ErrorCategory("Internal") // used for internal server errors, not related to bad user input
)

const (
	// General

	ErrorCreateFailure         = ErrorKey("ErrorCreateFailure")
	ErrorDestroyFailure        = ErrorKey("ErrorDestroyFailure")
	ErrorGenericInternalServer = ErrorKey("ErrorGenericInternalServer")
	ErrorForeignKeyViolation   = ErrorKey("ErrorForeignKeyViolation")
	ErrorInvalidRequestBody    = ErrorKey("ErrorInvalidRequestBody")
	ErrorMustBeAValidUUID      = ErrorKey("ErrorMustBeAValidUUID")
	ErrorNoRows                = ErrorKey("ErrorNoRows")
	ErrorNotAuthorized         = ErrorKey("ErrorNotAuthorized")
	ErrorQueryFailure          = ErrorKey("ErrorQueryFailure")
	ErrorRecordStale           = ErrorKey("ErrorRecordStale")
	ErrorSaveFailure           = ErrorKey("ErrorSaveFailure")
	ErrorUniqueKeyViolation    = ErrorKey("ErrorUniqueKeyViolation")
	ErrorUnknown               = ErrorKey("ErrorUnknown")
	ErrorUpdateFailure         = ErrorKey("ErrorUpdateFailure")
	ErrorValidation            = ErrorKey("ErrorValidation")

	// Authentication
	ErrorCreatingAccessToken = ErrorKey("ErrorCreatingAccessToken")
	ErrorDeletingAccessToken = ErrorKey("ErrorDeletingAccessToken")
	ErrorFindingAccessToken  = ErrorKey("ErrorFindingAccessToken")

	// Authorization
	ErrorInvalidResourceID = ErrorKey("ErrorInvalidResourceID")
	ErrorResourceNotFound  = ErrorKey("ErrorResourceNotFound")

	// File
	ErrorFileAlreadyLinked       = ErrorKey("ErrorFileAlreadyLinked")
	ErrorFilenameRequired        = ErrorKey("ErrorFilenameRequired")
	ErrorReceivingFile           = ErrorKey("ErrorReceivingFile")
	ErrorStoreFileBadContentType = ErrorKey("ErrorStoreFileBadContentType")
	ErrorStoreFileTooLarge       = ErrorKey("ErrorStoreFileTooLarge")
	ErrorUnableToReadFile        = ErrorKey("ErrorUnableToReadFile")
	ErrorUnableToStoreFile       = ErrorKey("ErrorUnableToStoreFile")

	// Entity / Subsidiary
	ErrorEntityBlocked            = ErrorKey("ErrorEntityBlocked")
	ErrorEntityFromContext        = ErrorKey("ErrorEntityFromContext")
	ErrorEntityInvalidType        = ErrorKey("ErrorEntityInvalidType")
	ErrorSubsidiaryLastRemaining  = ErrorKey("ErrorSubsidiaryLastRemaining")
	ErrorSubsidiaryNotUnderEntity = ErrorKey("ErrorSubsidiaryNotUnderEntity")

	// Service Provider
	ErrorDisplacementTierOverlap      = ErrorKey("ErrorDisplacementTierOverlap")
	ErrorServiceProviderFromContext   = ErrorKey("ErrorServiceProviderFromContext")
	ErrorServiceProviderMissingEntity = ErrorKey("ErrorServiceProviderMissingEntity")

	// Technician
	ErrorTechnicianFromContext = ErrorKey("ErrorTechnicianFromContext")

	// User
	ErrorUserFromContext = ErrorKey("ErrorUserFromContext")

	// Vehicle
	ErrorVehicleFromContext = ErrorKey("ErrorVehicleFromContext")

	// Transfer / Replacement
	ErrorTransferEquipmentNotFound   = ErrorKey("ErrorTransferEquipmentNotFound")
	ErrorTransferInvalidDate         = ErrorKey("ErrorTransferInvalidDate")
	ErrorTransferMissingInstallation = ErrorKey("ErrorTransferMissingInstallation")
	ErrorTransferSameDestination     = ErrorKey("ErrorTransferSameDestination")
	ErrorReplacementEquipmentInUse   = ErrorKey("ErrorReplacementEquipmentInUse")
	ErrorReplacementEquipmentMissing = ErrorKey("ErrorReplacementEquipmentMissing")
	ErrorContractAlreadyTerminated   = ErrorKey("ErrorContractAlreadyTerminated")

	// Logo / report
	ErrorLogoNotFound    = ErrorKey("ErrorLogoNotFound")
	ErrorRenderingPDF    = ErrorKey("ErrorRenderingPDF")
	ErrorRenderingExport = ErrorKey("ErrorRenderingExport")
)
