package iam

// MenuItem is a single navigation entry the dashboard renders for a role.
type MenuItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
}

// roleMenus is the role to navigation table. The frontend renders exactly
// this list; it never derives visibility from scopes on its own.
var roleMenus = map[Role][]MenuItem{
	RoleSuperadmin: {
		{Key: "dashboard", Label: "Dashboard Nasional", Path: "/dashboard", Icon: "home"},
		{Key: "tenants", Label: "Manajemen Koperasi", Path: "/tenants", Icon: "building"},
		{Key: "jobs", Label: "Permintaan Pekerjaan", Path: "/jobs", Icon: "briefcase"},
		{Key: "members", Label: "Anggota TKBM", Path: "/members", Icon: "users"},
		{Key: "pbms", Label: "Perusahaan PBM", Path: "/pbms", Icon: "anchor"},
		{Key: "equipment", Label: "Alat Berat", Path: "/equipment", Icon: "truck"},
		{Key: "billing", Label: "Penagihan", Path: "/billing", Icon: "receipt"},
		{Key: "reports", Label: "Laporan Nasional", Path: "/reports", Icon: "chart"},
	},
	RoleAdmin: {
		{Key: "dashboard", Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Key: "jobs", Label: "Permintaan Pekerjaan", Path: "/jobs", Icon: "briefcase"},
		{Key: "members", Label: "Anggota TKBM", Path: "/members", Icon: "users"},
		{Key: "pbms", Label: "Perusahaan PBM", Path: "/pbms", Icon: "anchor"},
		{Key: "equipment", Label: "Alat Berat", Path: "/equipment", Icon: "truck"},
		{Key: "billing", Label: "Penagihan", Path: "/billing", Icon: "receipt"},
		{Key: "reports", Label: "Laporan Koperasi", Path: "/reports", Icon: "chart"},
	},
	RolePBM: {
		{Key: "dashboard", Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Key: "jobs", Label: "Permintaan Pekerjaan", Path: "/jobs", Icon: "briefcase"},
		{Key: "equipment", Label: "Alat Berat", Path: "/equipment", Icon: "truck"},
		{Key: "billing", Label: "Tagihan Saya", Path: "/billing", Icon: "receipt"},
	},
	RoleTeamLeader: {
		{Key: "dashboard", Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Key: "jobs", Label: "Pekerjaan Tim", Path: "/jobs", Icon: "briefcase"},
		{Key: "members", Label: "Anggota Tim", Path: "/members", Icon: "users"},
	},
	RoleWorker: {
		{Key: "dashboard", Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Key: "jobs", Label: "Pekerjaan Saya", Path: "/jobs", Icon: "briefcase"},
	},
}

// MenuFor returns the navigation entries for a role. Unknown roles get an
// empty menu rather than an error so a stale token degrades to a blank shell.
func MenuFor(role Role) []MenuItem {
	items, ok := roleMenus[role]
	if !ok {
		return []MenuItem{}
	}
	out := make([]MenuItem, len(items))
	copy(out, items)
	return out
}
