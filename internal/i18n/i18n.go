// Package i18n holds the portal UI strings in French, Dutch and
// English. French is the canonical language; missing translations fall
// back to it, then to the code itself.
package i18n

import "strings"

const defaultLang = "fr"

var supported = map[string]bool{"fr": true, "nl": true, "en": true}

// Supported reports whether lang is one of the portal languages.
func Supported(lang string) bool { return supported[strings.ToLower(lang)] }

// DetectLanguage picks a portal language from an Accept-Language header,
// defaulting to French.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if len(tag) >= 2 {
			lang := strings.ToLower(tag[:2])
			if supported[lang] {
				return lang
			}
		}
	}
	return defaultLang
}

var translations = map[string]map[string]string{
	// Navigation
	"nav-catalog":          {"fr": "Catalogue", "nl": "Catalogus", "en": "Catalog"},
	"nav-orders":           {"fr": "Commandes", "nl": "Bestellingen", "en": "Orders"},
	"nav-favorites":        {"fr": "Favoris", "nl": "Favorieten", "en": "Favorites"},
	"nav-profile":          {"fr": "Profil", "nl": "Profiel", "en": "Profile"},
	"nav-login":            {"fr": "Connexion", "nl": "Aanmelden", "en": "Log in"},
	"nav-logout":           {"fr": "Déconnexion", "nl": "Afmelden", "en": "Log out"},
	"nav-admin-orders":     {"fr": "Commandes (admin)", "nl": "Bestellingen (beheer)", "en": "Orders (admin)"},
	"nav-admin-clients":    {"fr": "Clients", "nl": "Klanten", "en": "Clients"},
	"nav-admin-products":   {"fr": "Produits", "nl": "Producten", "en": "Products"},
	"nav-admin-categories": {"fr": "Catégories", "nl": "Categorieën", "en": "Categories"},
	"nav-admin-employees":  {"fr": "Employés", "nl": "Medewerkers", "en": "Employees"},
	"nav-admin-settings":   {"fr": "Paramètres", "nl": "Instellingen", "en": "Settings"},
	"search-placeholder":   {"fr": "Rechercher…", "nl": "Zoeken…", "en": "Search…"},

	// Fields
	"field-email":           {"fr": "E-mail", "nl": "E-mail", "en": "E-mail"},
	"field-password":        {"fr": "Mot de passe", "nl": "Wachtwoord", "en": "Password"},
	"field-sku":             {"fr": "Référence", "nl": "Referentie", "en": "SKU"},
	"field-name":            {"fr": "Nom", "nl": "Naam", "en": "Name"},
	"field-first-name":      {"fr": "Prénom", "nl": "Voornaam", "en": "First name"},
	"field-last-name":       {"fr": "Nom de famille", "nl": "Achternaam", "en": "Last name"},
	"field-unit":            {"fr": "Unité", "nl": "Eenheid", "en": "Unit"},
	"field-price":           {"fr": "Prix", "nl": "Prijs", "en": "Price"},
	"field-quantity":        {"fr": "Quantité", "nl": "Aantal", "en": "Quantity"},
	"field-subtotal":        {"fr": "Sous-total", "nl": "Subtotaal", "en": "Subtotal"},
	"field-total":           {"fr": "Total", "nl": "Totaal", "en": "Total"},
	"field-estimated-total": {"fr": "Total estimé", "nl": "Geschat totaal", "en": "Estimated total"},
	"field-final-total":     {"fr": "Total final", "nl": "Definitief totaal", "en": "Final total"},
	"field-delivery-date":   {"fr": "Date de livraison", "nl": "Leverdatum", "en": "Delivery date"},
	"field-delivery-days":   {"fr": "Jours de livraison", "nl": "Leverdagen", "en": "Delivery days"},
	"field-notes":           {"fr": "Remarques", "nl": "Opmerkingen", "en": "Notes"},
	"field-status":          {"fr": "Statut", "nl": "Status", "en": "Status"},
	"field-category":        {"fr": "Catégorie", "nl": "Categorie", "en": "Category"},
	"field-weight":          {"fr": "Poids approx.", "nl": "Gewicht (ca.)", "en": "Approx. weight"},
	"field-active":          {"fr": "Actif", "nl": "Actief", "en": "Active"},
	"field-company":         {"fr": "Société", "nl": "Bedrijf", "en": "Company"},
	"field-contact":         {"fr": "Contact", "nl": "Contactpersoon", "en": "Contact"},
	"field-phone":           {"fr": "Téléphone", "nl": "Telefoon", "en": "Phone"},
	"field-vat":             {"fr": "N° TVA", "nl": "BTW-nummer", "en": "VAT number"},
	"field-locale":          {"fr": "Langue", "nl": "Taal", "en": "Language"},
	"field-role":            {"fr": "Rôle", "nl": "Rol", "en": "Role"},
	"field-slug":            {"fr": "Identifiant", "nl": "Sleutel", "en": "Slug"},
	"field-discount":        {"fr": "Remise", "nl": "Korting", "en": "Discount"},
	"field-permissions":     {"fr": "Permissions", "nl": "Rechten", "en": "Permissions"},
	"field-line1":           {"fr": "Adresse", "nl": "Adres", "en": "Address line 1"},
	"field-line2":           {"fr": "Complément", "nl": "Toevoeging", "en": "Address line 2"},
	"field-postal":          {"fr": "Code postal", "nl": "Postcode", "en": "Postal code"},
	"field-city":            {"fr": "Ville", "nl": "Stad", "en": "City"},
	"field-country":         {"fr": "Pays", "nl": "Land", "en": "Country"},

	// Statuses
	"status-pending":   {"fr": "En attente", "nl": "In afwachting", "en": "Pending"},
	"status-confirmed": {"fr": "Confirmée", "nl": "Bevestigd", "en": "Confirmed"},
	"status-shipped":   {"fr": "Expédiée", "nl": "Verzonden", "en": "Shipped"},
	"status-delivered": {"fr": "Livrée", "nl": "Geleverd", "en": "Delivered"},
	"status-cancelled": {"fr": "Annulée", "nl": "Geannuleerd", "en": "Cancelled"},
	"all-statuses":     {"fr": "Tous les statuts", "nl": "Alle statussen", "en": "All statuses"},

	// Weekdays
	"day-monday":    {"fr": "Lundi", "nl": "Maandag", "en": "Monday"},
	"day-tuesday":   {"fr": "Mardi", "nl": "Dinsdag", "en": "Tuesday"},
	"day-wednesday": {"fr": "Mercredi", "nl": "Woensdag", "en": "Wednesday"},
	"day-thursday":  {"fr": "Jeudi", "nl": "Donderdag", "en": "Thursday"},
	"day-friday":    {"fr": "Vendredi", "nl": "Vrijdag", "en": "Friday"},
	"day-saturday":  {"fr": "Samedi", "nl": "Zaterdag", "en": "Saturday"},
	"day-sunday":    {"fr": "Dimanche", "nl": "Zondag", "en": "Sunday"},

	// Pages and actions
	"login-title":          {"fr": "Connexion", "nl": "Aanmelden", "en": "Log in"},
	"login-submit":         {"fr": "Se connecter", "nl": "Aanmelden", "en": "Log in"},
	"invite-title":         {"fr": "Activer votre compte", "nl": "Account activeren", "en": "Activate your account"},
	"invite-submit":        {"fr": "Choisir ce mot de passe", "nl": "Wachtwoord instellen", "en": "Set password"},
	"next-delivery":        {"fr": "Prochaine livraison", "nl": "Volgende levering", "en": "Next delivery"},
	"all-categories":       {"fr": "Toutes les catégories", "nl": "Alle categorieën", "en": "All categories"},
	"order-submit":         {"fr": "Passer la commande", "nl": "Bestelling plaatsen", "en": "Place order"},
	"order-update":         {"fr": "Mettre à jour", "nl": "Bijwerken", "en": "Update"},
	"order-editable-hint":  {"fr": "Cette commande peut encore être modifiée avant la date limite.", "nl": "Deze bestelling kan nog worden aangepast vóór de deadline.", "en": "This order can still be changed before the deadline."},
	"no-orders":            {"fr": "Aucune commande", "nl": "Geen bestellingen", "en": "No orders"},
	"no-favorites":         {"fr": "Aucun favori", "nl": "Geen favorieten", "en": "No favorites"},
	"favorite-remove":      {"fr": "Retirer", "nl": "Verwijderen", "en": "Remove"},
	"profile-contact":      {"fr": "Coordonnées", "nl": "Contactgegevens", "en": "Contact details"},
	"profile-shipping":     {"fr": "Adresse de livraison", "nl": "Leveradres", "en": "Shipping address"},
	"profile-billing":      {"fr": "Adresse de facturation", "nl": "Factuuradres", "en": "Billing address"},
	"profile-save":         {"fr": "Enregistrer", "nl": "Opslaan", "en": "Save"},
	"client-new":           {"fr": "Nouveau client", "nl": "Nieuwe klant", "en": "New client"},
	"client-create":        {"fr": "Créer le client", "nl": "Klant aanmaken", "en": "Create client"},
	"client-save":          {"fr": "Enregistrer", "nl": "Opslaan", "en": "Save"},
	"client-roles-title":   {"fr": "Rôles clients", "nl": "Klantrollen", "en": "Client roles"},
	"role-new":             {"fr": "Nouveau rôle", "nl": "Nieuwe rol", "en": "New role"},
	"role-create":          {"fr": "Créer le rôle", "nl": "Rol aanmaken", "en": "Create role"},
	"product-new":          {"fr": "Nouveau produit", "nl": "Nieuw product", "en": "New product"},
	"product-save":         {"fr": "Enregistrer", "nl": "Opslaan", "en": "Save"},
	"category-new":         {"fr": "Nouvelle catégorie", "nl": "Nieuwe categorie", "en": "New category"},
	"category-save":        {"fr": "Enregistrer", "nl": "Opslaan", "en": "Save"},
	"category-delete":      {"fr": "Supprimer", "nl": "Verwijderen", "en": "Delete"},
	"employee-new":         {"fr": "Nouvel employé", "nl": "Nieuwe medewerker", "en": "New employee"},
	"employee-create":      {"fr": "Créer l'employé", "nl": "Medewerker aanmaken", "en": "Create employee"},
	"employee-roles-title": {"fr": "Rôles employés", "nl": "Medewerkersrollen", "en": "Employee roles"},

	// Settings
	"setting-cutoff-time":    {"fr": "Heure limite de commande", "nl": "Besteldeadline", "en": "Order cutoff time"},
	"setting-cutoff-offset":  {"fr": "Délai minimum (jours)", "nl": "Minimale termijn (dagen)", "en": "Minimum lead (days)"},
	"setting-default-locale": {"fr": "Langue par défaut", "nl": "Standaardtaal", "en": "Default language"},
	"setting-vat-rate":       {"fr": "Taux de TVA", "nl": "BTW-tarief", "en": "VAT rate"},
	"setting-units":          {"fr": "Unités disponibles", "nl": "Beschikbare eenheden", "en": "Available units"},
	"settings-save":          {"fr": "Enregistrer", "nl": "Opslaan", "en": "Save"},

	// Result codes shown to the user
	"order-submitted":  {"fr": "Commande enregistrée", "nl": "Bestelling geregistreerd", "en": "Order saved"},
	"cart-empty":       {"fr": "Le panier est vide", "nl": "De winkelwagen is leeg", "en": "The cart is empty"},
	"product-mismatch": {"fr": "Produit introuvable", "nl": "Product niet gevonden", "en": "Unknown product"},
	"unauthorized":     {"fr": "Accès refusé", "nl": "Toegang geweigerd", "en": "Access denied"},
	"validation-error": {"fr": "Formulaire invalide", "nl": "Ongeldig formulier", "en": "Invalid form"},
	"order-error":      {"fr": "Échec de l'enregistrement de la commande", "nl": "Opslaan van bestelling mislukt", "en": "Failed to save the order"},
	"items-error":      {"fr": "Échec de l'enregistrement des lignes", "nl": "Opslaan van orderregels mislukt", "en": "Failed to save the order lines"},
	"unknown":          {"fr": "Erreur inattendue", "nl": "Onverwachte fout", "en": "Unexpected error"},
	"no-delivery":      {"fr": "Aucune livraison possible", "nl": "Geen levering mogelijk", "en": "No delivery available"},
	"invalid-login":    {"fr": "Identifiants invalides", "nl": "Ongeldige aanmeldgegevens", "en": "Invalid credentials"},
}

// T translates a code for a language, falling back to French, then to
// the code itself when no translation exists.
func T(lang, code string) string {
	entry, ok := translations[code]
	if !ok {
		return code
	}
	lang = strings.ToLower(lang)
	if v, ok := entry[lang]; ok && v != "" {
		return v
	}
	if v, ok := entry[defaultLang]; ok && v != "" {
		return v
	}
	return code
}
