package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Id prefixes per collection.
const (
	PrefixProperty     = "prop"
	PrefixOwner        = "owner"
	PrefixTransaction  = "txn"
	PrefixExpense      = "exp"
	PrefixVisitor      = "vis"
	PrefixRequest      = "req"
	PrefixBooking      = "book"
	PrefixPackage      = "pkg"
	PrefixMarketplace  = "mkt"
	PrefixProvider     = "prov"
	PrefixBusiness     = "biz"
	PrefixAnnouncement = "ann"
	PrefixPoll         = "poll"
	PrefixPollOption   = "opt"
)

// NewID returns a fresh id such as "vis-3f0c…".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// NewProperty registers the owner, when given, as the current occupant
// starting on the day of now.
func NewProperty(lot int, address, model string, area int, ownerID string, now time.Time) Property {
	p := Property{
		ID:                NewID(PrefixProperty),
		LotNumber:         lot,
		Address:           address,
		Model:             model,
		Area:              area,
		OwnerID:           ownerID,
		OccupationHistory: []Occupancy{},
		Documents:         []Document{},
	}
	if ownerID != "" {
		p.OccupationHistory = append(p.OccupationHistory, Occupancy{OwnerID: ownerID, From: FormatDate(now)})
	}
	return p
}

func NewOwner(name, email, phone string) Owner {
	id := NewID(PrefixOwner)
	return Owner{
		ID:            id,
		Name:          name,
		Email:         email,
		Phone:         phone,
		Avatar:        "https://i.pravatar.cc/150?u=" + id,
		FamilyMembers: []FamilyMember{},
		Vehicles:      []Vehicle{},
		Pets:          []string{},
	}
}

func NewTransaction(propertyID string, typ TransactionType, amount Money, status TransactionStatus, now time.Time) Transaction {
	return Transaction{
		ID:         NewID(PrefixTransaction),
		PropertyID: propertyID,
		Date:       FormatDate(now),
		Type:       typ,
		Amount:     amount,
		Status:     status,
	}
}

func NewExpense(category, description string, amount Money, now time.Time) Expense {
	return Expense{
		ID:          NewID(PrefixExpense),
		Date:        FormatDate(now),
		Category:    category,
		Description: description,
		Amount:      amount,
	}
}

// NewVisitor records a walk-in: the visitor is inside from now on.
func NewVisitor(name, idNumber, propertyID string, now time.Time) Visitor {
	return Visitor{
		ID:         NewID(PrefixVisitor),
		Name:       name,
		IDNumber:   idNumber,
		PropertyID: propertyID,
		EntryDate:  FormatStamp(now),
		Status:     VisitorInside,
	}
}

func NewMaintenanceRequest(propertyID, area, description string, now time.Time) MaintenanceRequest {
	if propertyID == "" {
		propertyID = CommonArea
	}
	return MaintenanceRequest{
		ID:            NewID(PrefixRequest),
		PropertyID:    propertyID,
		Area:          area,
		Description:   description,
		Status:        RequestPending,
		SubmittedDate: FormatDate(now),
	}
}

func NewAmenityBooking(amenity, propertyID, date, timeSlot string) AmenityBooking {
	return AmenityBooking{
		ID:         NewID(PrefixBooking),
		Amenity:    amenity,
		PropertyID: propertyID,
		Date:       date,
		TimeSlot:   timeSlot,
	}
}

// NewPackage is a delivery just left at the gate.
func NewPackage(propertyID, carrier string, now time.Time) Package {
	return Package{
		ID:           NewID(PrefixPackage),
		PropertyID:   propertyID,
		Carrier:      carrier,
		ReceivedDate: FormatStamp(now),
		Status:       PackageAtGate,
	}
}

func NewMarketplaceItem(title, description string, price Money, sellerID string, now time.Time) MarketplaceItem {
	return MarketplaceItem{
		ID:          NewID(PrefixMarketplace),
		Title:       title,
		Description: description,
		Price:       price,
		ImageURL:    "https://placehold.co/600x400/34d399/FFFFFF/png?text=" + strings.ReplaceAll(title, " ", "+"),
		SellerID:    sellerID,
		DatePosted:  FormatDate(now),
	}
}

func NewProvider(name, service, phone string, rating int) Provider {
	return Provider{ID: NewID(PrefixProvider), Name: name, Service: service, Phone: phone, Rating: rating}
}

func NewLocalBusiness(name, category, phone, address string) LocalBusiness {
	return LocalBusiness{ID: NewID(PrefixBusiness), Name: name, Category: category, Phone: phone, Address: address}
}

func NewAnnouncement(title, content, author string, now time.Time) Announcement {
	return Announcement{
		ID:      NewID(PrefixAnnouncement),
		Title:   title,
		Content: content,
		Date:    FormatDate(now),
		Author:  author,
	}
}

// NewPoll opens a poll today with every option at zero votes.
func NewPoll(title, description, closingDate string, options []string, now time.Time) Poll {
	id := NewID(PrefixPoll)
	p := Poll{
		ID:           id,
		Title:        title,
		Description:  description,
		ClosingDate:  closingDate,
		Options:      make([]PollOption, 0, len(options)),
		Status:       PollActive,
		CreationDate: FormatDate(now),
		VotedBy:      []string{},
	}
	for i, text := range options {
		p.Options = append(p.Options, PollOption{
			ID:   fmt.Sprintf("%s-%s-%d", PrefixPollOption, strings.TrimPrefix(id, PrefixPoll+"-"), i),
			Text: text,
		})
	}
	return p
}
