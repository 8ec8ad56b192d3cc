package models

// Document field names shared by filters, decoders and writes.
const (
	FieldEmail              = "email"
	FieldRole               = "role"
	FieldNickname           = "nickname"
	FieldFCMToken           = "fcmToken"
	FieldCreatedAt          = "createdAt"
	FieldUpdatedAt          = "updatedAt"
	FieldVendorID           = "vendorId"
	FieldName               = "name"
	FieldLocation           = "location"
	FieldPrice              = "price"
	FieldSeasonalPrice      = "seasonalPrice"
	FieldCancellationPolicy = "cancellationPolicy"
	FieldImg                = "img"
	FieldDetails            = "details"
	FieldIsFeatured         = "isFeatured"
	FieldPackageID          = "packageId"
	FieldPackageName        = "packageName"
	FieldPackagePrice       = "packagePrice"
	FieldTotalPrice         = "totalPrice"
	FieldTravelerID         = "travelerId"
	FieldTravelerEmail      = "travelerEmail"
	FieldStatus             = "status"
	FieldMessages           = "messages"
	FieldItems              = "items"
	FieldSender             = "sender"
	FieldText               = "text"
	FieldTimestamp          = "timestamp"
	FieldUserID             = "userId"
	FieldAddedAt            = "addedAt"
)
