// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type AccessError GenericError
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised            = ExistsError("already initialised")
	ApprovalMismatch              = InvalidError("approval mismatch")
	AuctionNotEnded               = AccessError("auction not ended")
	AuctionNotStarted             = InvalidError("auction not started")
	AuctionEnded                  = InvalidError("auction ended")
	BidTooLow                     = InvalidError("bid too low")
	CannotBidOnOwnListing         = AccessError("cannot bid on own listing")
	CannotBuyAuction              = InvalidError("auction listings sell by bid")
	CertificateFileAlreadyExists  = ExistsError("certificate file already exists")
	CollectionNotApproved         = InvalidError("collection not approved")
	CollectionNotTrusted          = InvalidError("collection not trusted for series")
	CurrencyNotApproved           = InvalidError("currency not approved")
	CurrencyNotSupported          = InvalidError("currency not supported")
	DepositTooLow                 = InvalidError("deposit too low")
	IncorrectDeposit              = InvalidError("incorrect deposit amount")
	InsufficientStorageDeposit    = InvalidError("insufficient storage deposit")
	InvalidAccount                = InvalidError("invalid account")
	InvalidCount                  = InvalidError("invalid count")
	InvalidCurrency               = InvalidError("invalid currency")
	InvalidDnsTxtRecord           = InvalidError("invalid dns txt record")
	InvalidFeeRate                = InvalidError("invalid fee rate")
	InvalidFeeStartTime           = InvalidError("fee start time not in the future")
	InvalidIpAddress              = InvalidError("invalid IP Address")
	InvalidItem                   = InvalidError("invalid item")
	InvalidKeyLength              = LengthError("invalid key length")
	InvalidListingWindow          = InvalidError("invalid listing time window")
	InvalidPrice                  = InvalidError("invalid price")
	InvalidPriceRange             = InvalidError("dutch end price must be below start price")
	InvalidStructure              = RecordError("invalid record structure")
	InvalidTarget                 = InvalidError("invalid offer target")
	KeyFileAlreadyExists          = ExistsError("key file already exists")
	ListingNotAuction             = InvalidError("listing is not an auction")
	ListingNotFound               = NotFoundError("listing not found")
	MissingParameters             = LengthError("missing parameters")
	NoBidsOutstanding             = NotFoundError("no bids outstanding")
	NotAvailableDuringSynchronise = InvalidError("not available during synchronise")
	NotInitialised                = NotFoundError("not initialised")
	NotListingOwner               = AccessError("not the listing owner")
	NotMarketplaceOwner           = AccessError("not the marketplace owner")
	NotOfferOwner                 = AccessError("not the offer owner")
	NotTradeProposer              = AccessError("not the trade proposer")
	OfferNotFound                 = NotFoundError("offer not found")
	PayoutOverClaimed             = ProcessError("payout exceeds sale price")
	PayoutShortfall               = ProcessError("payout shortfall exceeds tolerance")
	PriceMismatch                 = InvalidError("price mismatch")
	RateLimiting                  = ProcessError("rate limiting")
	SettlementNotFound            = NotFoundError("settlement not found")
	StorageDepositNotFound        = NotFoundError("storage deposit not found")
	TradeNotFound                 = NotFoundError("trade not found")
	TradeSettlementFailed         = ProcessError("trade settlement failed")
	TransferRequestFailed         = ProcessError("transfer request failed")
	WrongNetworkForLedger         = InvalidError("wrong network for ledger")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AccessError) Error() string   { return string(e) }
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error
func IsErrAccess(e error) bool   { _, ok := e.(AccessError); return ok }
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool   { _, ok := e.(RecordError); return ok }
