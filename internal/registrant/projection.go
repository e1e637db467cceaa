// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package registrant

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taibuivan/roster/pkg/pointer"
)

// # View Options

// Filter narrows the list by registration age.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterRecent Filter = "recent"
)

// RecentWindow is how far back FilterRecent reaches.
const RecentWindow = 24 * time.Hour

// SortKey names the User field the list is ordered by.
type SortKey string

const (
	SortID         SortKey = FieldID
	SortName       SortKey = FieldName
	SortEmail      SortKey = FieldEmail
	SortMobile     SortKey = FieldMobile
	SortAddress    SortKey = FieldAddress
	SortIPAddress  SortKey = FieldIPAddress
	SortIPLocation SortKey = FieldIPLocation
	SortCreatedAt  SortKey = FieldCreatedAt
)

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Accepted query-string values, in the order error messages list them.
var (
	FilterValues    = []string{string(FilterAll), string(FilterRecent)}
	DirectionValues = []string{string(Ascending), string(Descending)}
	SortKeyValues   = []string{
		string(SortID), string(SortName), string(SortEmail), string(SortMobile),
		string(SortAddress), string(SortIPAddress), string(SortIPLocation), string(SortCreatedAt),
	}
)

// ViewOptions is the admin panel's view state over the record list.
//
// The zero value shows everything ordered by id ascending.
type ViewOptions struct {
	Query     string
	Filter    Filter
	SortKey   SortKey
	Direction Direction
	// Now anchors FilterRecent. Zero means time.Now().
	Now time.Time
}

// # Projection

/*
Project derives the displayed list from a snapshot.

Steps, in order:
 1. Substring match of Query against name, email, mobile or address, with
    Unicode case folding. A blank query keeps every record.
 2. FilterRecent keeps records created within [RecentWindow] of Now. Records
    without a timestamp are dropped.
 3. Stable sort by SortKey: text fields by locale collation, id numerically,
    createdAt by epoch milliseconds. Missing text sorts as "".

The input slice and its records are never modified.
*/
func Project(users []*User, options ViewOptions) []*User {
	result := make([]*User, 0, len(users))

	var matcher *queryMatcher
	if strings.TrimSpace(options.Query) != "" {
		matcher = newQueryMatcher(options.Query)
	}

	now := options.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := now.Add(-RecentWindow)

	for _, user := range users {
		if matcher != nil && !matcher.matches(user) {
			continue
		}
		if options.Filter == FilterRecent && (user.CreatedAt.IsZero() || !user.CreatedAt.After(cutoff)) {
			continue
		}
		result = append(result, user)
	}

	key := options.SortKey
	if key == "" {
		key = SortID
	}
	descending := options.Direction == Descending

	collator := collate.New(language.Und)
	slices.SortStableFunc(result, func(a, b *User) int {
		order := compareBy(collator, key, a, b)
		if descending {
			return -order
		}
		return order
	})

	return result
}

/*
NextSort returns the view state after a column header click.

Clicking the active ascending column flips it to descending; any other click
sorts ascending by the clicked column.
*/
func NextSort(current SortKey, direction Direction, clicked SortKey) (SortKey, Direction) {
	if clicked == current && direction != Descending {
		return clicked, Descending
	}
	return clicked, Ascending
}

func compareBy(collator *collate.Collator, key SortKey, a, b *User) int {
	switch key {
	case SortID:
		return cmp.Compare(a.ID, b.ID)
	case SortCreatedAt:
		return cmp.Compare(a.CreatedAt.UnixMilli(), b.CreatedAt.UnixMilli())
	default:
		return collator.CompareString(textField(key, a), textField(key, b))
	}
}

func textField(key SortKey, user *User) string {
	switch key {
	case SortName:
		return user.Name
	case SortEmail:
		return user.Email
	case SortMobile:
		return user.Mobile
	case SortAddress:
		return user.Address
	case SortIPAddress:
		return pointer.Val(user.IPAddress)
	case SortIPLocation:
		return pointer.Val(user.IPLocation)
	}
	return ""
}

// # Matching

// queryMatcher tests records against one search term. A [cases.Caser] keeps
// state, so each matcher owns its own and must stay on one goroutine.
type queryMatcher struct {
	caser  cases.Caser
	needle string
}

func newQueryMatcher(query string) *queryMatcher {
	caser := cases.Fold()
	return &queryMatcher{caser: caser, needle: caser.String(query)}
}

func (matcher *queryMatcher) matches(user *User) bool {
	for _, field := range []string{user.Name, user.Email, user.Mobile, user.Address} {
		if strings.Contains(matcher.caser.String(field), matcher.needle) {
			return true
		}
	}
	return false
}
