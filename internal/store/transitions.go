package store

import (
	"context"
	"fmt"
	"time"

	"condo/internal/core"
)

// MarkPackageDelivered hands a package waiting at the gate to its resident.
func (s *Store) MarkPackageDelivered(ctx context.Context, id string, at time.Time) (core.Package, error) {
	var updated core.Package
	err := s.update(ctx, func(snap *core.Snapshot) error {
		for i := range snap.Packages {
			p := &snap.Packages[i]
			if p.ID != id {
				continue
			}
			if !p.AtGate() {
				return core.ErrInvalidTransition
			}
			stamp := core.FormatStamp(at)
			p.Status = core.PackageDelivered
			p.PickedUpDate = &stamp
			updated = *p
			return nil
		}
		return core.ErrNotFound
	})
	if err != nil {
		return core.Package{}, fmt.Errorf("deliver package %s: %w", id, err)
	}
	s.announce(ctx, core.CollPackages, id, fmt.Sprintf("Paquete de %s entregado al residente.", updated.Carrier))
	return updated, nil
}

var visitorSteps = map[core.VisitorStatus]core.VisitorStatus{
	core.VisitorExpected: core.VisitorInside,
	core.VisitorInside:   core.VisitorDeparted,
}

// SetVisitorStatus moves a visitor one step along Expected, Inside,
// Departed. Entering stamps the entry time, leaving the exit time.
func (s *Store) SetVisitorStatus(ctx context.Context, id string, status core.VisitorStatus, at time.Time) (core.Visitor, error) {
	var updated core.Visitor
	err := s.update(ctx, func(snap *core.Snapshot) error {
		for i := range snap.Visitors {
			v := &snap.Visitors[i]
			if v.ID != id {
				continue
			}
			if visitorSteps[v.Status] != status {
				return core.ErrInvalidTransition
			}
			stamp := core.FormatStamp(at)
			switch status {
			case core.VisitorInside:
				v.EntryDate = stamp
			case core.VisitorDeparted:
				v.ExitDate = &stamp
			}
			v.Status = status
			updated = *v
			return nil
		}
		return core.ErrNotFound
	})
	if err != nil {
		return core.Visitor{}, fmt.Errorf("visitor %s to %s: %w", id, status, err)
	}

	msg := fmt.Sprintf("%s ingresó al condominio.", updated.Name)
	if status == core.VisitorDeparted {
		msg = fmt.Sprintf("%s salió del condominio.", updated.Name)
	}
	s.announce(ctx, core.CollVisitors, id, msg)
	return updated, nil
}

// AttachDocument appends a document reference to a property. A document
// with the same name is rejected.
func (s *Store) AttachDocument(ctx context.Context, propertyID string, doc core.Document) (core.Property, error) {
	var updated core.Property
	err := s.update(ctx, func(snap *core.Snapshot) error {
		for i := range snap.Properties {
			p := &snap.Properties[i]
			if p.ID != propertyID {
				continue
			}
			for _, d := range p.Documents {
				if d.Name == doc.Name {
					return core.ErrDuplicate
				}
			}
			p.Documents = append(p.Documents, doc)
			updated = *p
			return nil
		}
		return core.ErrNotFound
	})
	if err != nil {
		return core.Property{}, fmt.Errorf("attach %s to %s: %w", doc.Name, propertyID, err)
	}
	s.announce(ctx, core.CollProperties, propertyID, fmt.Sprintf("Documento %s agregado al Lote %d.", doc.Name, updated.LotNumber))
	return updated, nil
}
