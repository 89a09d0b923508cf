// Package tap implements the entity/graph model, untangle/id-assignment
// pipeline, message-handler chain, and assembler/authoriser that make up
// the core of an ActivityPub server, independent of transport, HTTP
// signature verification, and the concrete persistence backend.
package tap

// IRI prefixes used throughout the vocabulary helpers below and by the
// QuadQuery parser's prefix table.
const (
	nsActivityStreams = "https://www.w3.org/ns/activitystreams#"
	nsKroeg           = "https://puckipedia.com/kroeg/ns#"
	nsLDP             = "http://www.w3.org/ns/ldp#"
	nsOStatus         = "http://ostatus.org#"
	nsRDF             = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsSchema          = "http://schema.org#"
	nsToot            = "http://joinmastodon.org/ns#"
	nsXSD             = "http://www.w3.org/2001/XMLSchema#"
	nsSecurity        = "https://w3id.org/security#"
)

// as2 mirrors the as2! macro from the original source: the
// activitystreams namespace IRI for a local name.
func as2(local string) string { return nsActivityStreams + local }

// kroeg mirrors the kroeg! macro.
func kroeg(local string) string { return nsKroeg + local }

// ldp mirrors the ldp! macro.
func ldp(local string) string { return nsLDP + local }

// sec mirrors a security vocabulary local name.
func sec(local string) string { return nsSecurity + local }

// Commonly referenced predicate and type IRIs.
var (
	PredActor         = as2("actor")
	PredObject        = as2("object")
	PredAttributedTo  = as2("attributedTo")
	PredInReplyTo     = as2("inReplyTo")
	PredTo            = as2("to")
	PredCC            = as2("cc")
	PredBTo           = as2("bto")
	PredBCC           = as2("bcc")
	PredAudience      = as2("audience")
	PredURL           = as2("url")
	PredHref          = as2("href")
	PredFollowers     = as2("followers")
	PredFollowing     = as2("following")
	PredLiked         = as2("liked")
	PredLikes         = as2("likes")
	PredShares        = as2("shares")
	PredReplies       = as2("replies")
	PredPartOf        = as2("partOf")
	PredOutbox        = as2("outbox")
	PredSharedInbox   = as2("sharedInbox")
	PredPreferredName = as2("preferredUsername")
	PredPublicKey     = sec("publicKey")
	PredPublicKeyPem  = sec("publicKeyPem")
	PredOwner         = sec("owner")

	PredInbox = ldp("inbox")

	PredConversation = "http://ostatus.org/#conversation"

	TypeKey            = sec("Key")
	KroegPrivateKeyPem = kroeg("privateKeyPem")

	TypeCreate              = as2("Create")
	TypeUpdate              = as2("Update")
	TypeDelete              = as2("Delete")
	TypeAccept              = as2("Accept")
	TypeReject              = as2("Reject")
	TypeAdd                 = as2("Add")
	TypeAnnounce            = as2("Announce")
	TypeArrive              = as2("Arrive")
	TypeBlock               = as2("Block")
	TypeDislike             = as2("Dislike")
	TypeFlag                = as2("Flag")
	TypeFollow              = as2("Follow")
	TypeIgnore              = as2("Ignore")
	TypeInvite              = as2("Invite")
	TypeJoin                = as2("Join")
	TypeLeave               = as2("Leave")
	TypeLike                = as2("Like")
	TypeListen              = as2("Listen")
	TypeMove                = as2("Move")
	TypeOffer               = as2("Offer")
	TypeQuestion            = as2("Question")
	TypeRead                = as2("Read")
	TypeRemove              = as2("Remove")
	TypeTentativeReject     = as2("TentativeReject")
	TypeTentativeAccept     = as2("TentativeAccept")
	TypeTravel              = as2("Travel")
	TypeUndo                = as2("Undo")
	TypeView                = as2("View")
	TypePerson              = as2("Person")
	TypeNote                = as2("Note")
	TypeTombstone           = as2("Tombstone")
	TypeOrderedCollection   = as2("OrderedCollection")
	TypeOrderedCollPage     = as2("OrderedCollectionPage")
	ObjectPublic            = as2("Public")
	KroegMeta               = kroeg("meta")
	KroegInstance           = kroeg("instance")
	KroegBox                = kroeg("box")
)

// defaultActivityTypes is the fixed set of ActivityStreams activity
// types used by auto_create to detect an improperly posted bare
// activity.
var defaultActivityTypes = map[string]bool{
	TypeAccept: true, TypeAdd: true, TypeAnnounce: true, TypeArrive: true,
	TypeBlock: true, TypeCreate: true, TypeDelete: true, TypeDislike: true,
	TypeFlag: true, TypeFollow: true, TypeIgnore: true, TypeInvite: true,
	TypeJoin: true, TypeLeave: true, TypeLike: true, TypeListen: true,
	TypeMove: true, TypeOffer: true, TypeQuestion: true, TypeReject: true,
	TypeRead: true, TypeRemove: true, TypeTentativeReject: true,
	TypeTentativeAccept: true, TypeTravel: true, TypeUndo: true,
	TypeUpdate: true, TypeView: true,
}

// ToClonePredicates is auto_create's TO_CLONE list: addressing
// predicates copied from a bare object onto its synthesised Create.
var ToClonePredicates = []string{PredTo, PredCC, PredBTo, PredBCC, PredAudience}

// IsActivityType reports whether t is one of the fixed ActivityStreams
// activity types auto_create uses to detect an improperly posted bare
// activity.
func IsActivityType(t string) bool { return defaultActivityTypes[t] }
