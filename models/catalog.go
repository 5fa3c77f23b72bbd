package models

// Maps players can pick as favorites
var Maps = []string{
	"Mirage", "Inferno", "Nuke", "Overpass", "Vertigo", "Ancient", "Anubis", "Dust II", "Cache", "Train",
}

// Roles a player can prefer in a team
var Roles = []string{"Entry", "Support", "AWPer", "Lurker", "IGL"}

// RoleIGL gets special treatment in scoring: two IGLs are a bonus, not a clash
const RoleIGL = "IGL"

// Languages supported for voice communication matching
var Languages = []string{"English", "Russian"}

// TeamTypes a player can queue for
var TeamTypes = []string{"Premier", "Wingman"}

// IsValidMap reports whether name is in the map pool
func IsValidMap(name string) bool {
	return contains(Maps, name)
}

// IsValidRole reports whether role is a known team role
func IsValidRole(role string) bool {
	return contains(Roles, role)
}

// IsValidLanguage reports whether lang is a supported language
func IsValidLanguage(lang string) bool {
	return contains(Languages, lang)
}

// IsValidTeamType reports whether t is a known queue type
func IsValidTeamType(t string) bool {
	return contains(TeamTypes, t)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
