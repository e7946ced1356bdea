package kv

// Persisted key layout. The legacy-prefixed keys survive from earlier
// releases of the storefront and are still honored (and migrated) on read.
const (
	KeyCart              = "carrito"
	KeyUser              = "user"
	KeyCurrentUser       = "currentUser"
	KeyIsLoggedIn        = "isLoggedIn"
	KeyAllUsers          = "allUsers"
	KeyPendingPurchase   = "pendingPurchase"
	KeyRememberedEmail   = "rememberedEmail"
	KeyContactHistory    = "contactHistory"
	KeyIsNewUser         = "isNewUser"
	KeyLegacyCurrentUser = "repuestos_currentUser"
	KeyLegacyIsLoggedIn  = "repuestos_isLoggedIn"
	KeyLegacyAllUsers    = "repuestos_users"
)
