package rbac

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

const (
	PermQuizView    = "quiz:view"
	PermQuizEdit    = "quiz:edit"
	PermQuizPublish = "quiz:publish"
	PermQuizDelete  = "quiz:delete"
	PermQuizHistory = "quiz:history"
	PermAssetUpload = "asset:upload"
	PermTranslate   = "translate:run"
)

// Editors prepare content; publishing and deleting stay with admins.
var RolePermissions = map[string][]string{
	RoleEditor: {
		PermQuizView,
		PermQuizEdit,
		PermQuizHistory,
		PermAssetUpload,
		PermTranslate,
	},
	RoleAdmin: {
		"*", // everything
	},
}
