package core

import (
	"errors"
	"strings"
)

// CommonArea is the property id used by records that are not tied to a residence.
const CommonArea = "N/A"

// Role wire values match the labels shown to users.
const (
	RoleAdmin    Role = "Administrador"
	RoleResident Role = "Residente"
	RoleGuard    Role = "Vigilante"
)

const (
	TxMaintenanceFee TransactionType = "Maintenance Fee"
	TxFine           TransactionType = "Fine"
	TxExtraService   TransactionType = "Extra Service"

	TxPaid    TransactionStatus = "Paid"
	TxPending TransactionStatus = "Pending"
	TxOverdue TransactionStatus = "Overdue"
)

const (
	VisitorExpected VisitorStatus = "Expected"
	VisitorInside   VisitorStatus = "Inside"
	VisitorDeparted VisitorStatus = "Departed"
)

const (
	RequestPending    RequestStatus = "Pending"
	RequestInProgress RequestStatus = "In Progress"
	RequestCompleted  RequestStatus = "Completed"
)

const (
	PackageAtGate    PackageStatus = "Recibido en caseta"
	PackageDelivered PackageStatus = "Entregado al residente"
)

type (
	Role              string
	TransactionType   string
	TransactionStatus string
	VisitorStatus     string
	RequestStatus     string
	PackageStatus     string

	FamilyMember struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	Vehicle struct {
		Plate string `json:"plate"`
		Model string `json:"model"`
	}

	Owner struct {
		ID            string         `json:"id"`
		Name          string         `json:"name"`
		Email         string         `json:"email"`
		Phone         string         `json:"phone"`
		Avatar        string         `json:"avatar"`
		FamilyMembers []FamilyMember `json:"familyMembers"`
		Vehicles      []Vehicle      `json:"vehicles"`
		Pets          []string       `json:"pets"`
	}

	// Occupancy is one entry of a property's occupation history. To is nil
	// while the occupant is current.
	Occupancy struct {
		OwnerID string  `json:"ownerId"`
		From    string  `json:"from"`
		To      *string `json:"to"`
	}

	Document struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}

	Property struct {
		ID                string      `json:"id"`
		LotNumber         int         `json:"lotNumber"`
		Address           string      `json:"address"`
		Model             string      `json:"model"`
		Area              int         `json:"sqMeters"`
		OwnerID           string      `json:"ownerId"`
		OccupationHistory []Occupancy `json:"occupationHistory"`
		Documents         []Document  `json:"documents"`
	}

	// Identity is a user who can sign in. Residents are matched to their
	// Owner record by email.
	Identity struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Role   Role   `json:"role"`
		Avatar string `json:"avatar"`
	}

	Transaction struct {
		ID         string            `json:"id"`
		PropertyID string            `json:"propertyId"`
		Date       string            `json:"date"`
		Type       TransactionType   `json:"type"`
		Amount     Money             `json:"amount"`
		Status     TransactionStatus `json:"status"`
	}

	Expense struct {
		ID          string `json:"id"`
		Date        string `json:"date"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Amount      Money  `json:"amount"`
	}

	Visitor struct {
		ID         string        `json:"id"`
		Name       string        `json:"name"`
		IDNumber   string        `json:"idNumber"`
		PropertyID string        `json:"propertyId"`
		EntryDate  string        `json:"entryDate"`
		ExitDate   *string       `json:"exitDate"`
		Status     VisitorStatus `json:"status"`
	}

	MaintenanceRequest struct {
		ID            string        `json:"id"`
		PropertyID    string        `json:"propertyId"`
		Area          string        `json:"area"`
		Description   string        `json:"description"`
		Status        RequestStatus `json:"status"`
		SubmittedDate string        `json:"submittedDate"`
	}

	AmenityBooking struct {
		ID         string `json:"id"`
		Amenity    string `json:"amenity"`
		PropertyID string `json:"propertyId"`
		Date       string `json:"date"`
		TimeSlot   string `json:"timeSlot"`
	}

	Package struct {
		ID           string        `json:"id"`
		PropertyID   string        `json:"propertyId"`
		Carrier      string        `json:"carrier"`
		ReceivedDate string        `json:"receivedDate"`
		Status       PackageStatus `json:"status"`
		PickedUpDate *string       `json:"pickedUpDate"`
	}

	MarketplaceItem struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Price       Money  `json:"price"`
		ImageURL    string `json:"imageUrl"`
		SellerID    string `json:"sellerId"`
		DatePosted  string `json:"datePosted"`
	}

	Provider struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Service string `json:"service"`
		Phone   string `json:"phone"`
		Rating  int    `json:"rating"`
	}

	LocalBusiness struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Category string `json:"category"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}

	Announcement struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Content string `json:"content"`
		Date    string `json:"date"`
		Author  string `json:"author"`
	}
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownRole       = errors.New("unknown role")
	ErrDuplicate         = errors.New("record already exists")
)

// ParseRole accepts the wire labels and the short english names
// ("admin", "resident", "guard"), case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "administrador", "admin", "administrator":
		return RoleAdmin, nil
	case "residente", "resident":
		return RoleResident, nil
	case "vigilante", "guard":
		return RoleGuard, nil
	}
	return "", ErrUnknownRole
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleResident, RoleGuard:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// IsCommonArea reports whether a property id refers to shared areas.
func IsCommonArea(propertyID string) bool {
	return propertyID == CommonArea
}

// Open reports whether a transaction still has an amount due.
func (t Transaction) Open() bool {
	return t.Status != TxPaid
}

func (m MaintenanceRequest) Open() bool {
	return m.Status != RequestCompleted
}

func (p Package) AtGate() bool {
	return p.Status == PackageAtGate
}
