package gedcom

// Standard GEDCOM 5.5.1 tags used by this package and its consumers.
const (
	TagHeader     = "HEAD"
	TagTrailer    = "TRLR"
	TagCharacter  = "CHAR"
	TagSubmitter  = "SUBM"
	TagIndividual = "INDI"
	TagFamily     = "FAM"
	TagSource     = "SOUR"
	TagRepository = "REPO"
	TagNote       = "NOTE"
	TagObject     = "OBJE"

	TagContinued     = "CONT"
	TagConcatenation = "CONC"

	TagName      = "NAME"
	TagGivenName = "GIVN"
	TagSurname   = "SURN"
	TagNickname  = "NICK"
	TagPrefix    = "NPFX"
	TagSuffix    = "NSFX"
	TagSex       = "SEX"
	TagAlias     = "ALIA"

	TagAssociate          = "ASSO"
	TagRelation           = "RELA"
	TagAncestorInterest   = "ANCI"
	TagDescendantInterest = "DESI"
	TagPermanentFile      = "RFN"
	TagAncestralFile      = "AFN"

	TagBirth      = "BIRT"
	TagChristen   = "CHR"
	TagBaptism    = "BAPM"
	TagDeath      = "DEAT"
	TagBurial     = "BURI"
	TagCremation  = "CREM"
	TagCensus     = "CENS"
	TagResidence  = "RESI"
	TagEmigration = "EMIG"
	TagImmigrate  = "IMMI"
	TagNatural    = "NATU"
	TagProbate    = "PROB"
	TagWill       = "WILL"
	TagGraduation = "GRAD"
	TagRetirement = "RETI"
	TagEvent      = "EVEN"
	TagOccupation = "OCCU"
	TagEducation  = "EDUC"
	TagReligion   = "RELI"
	TagTitle      = "TITL"

	TagMarriage     = "MARR"
	TagDivorce      = "DIV"
	TagEngagement   = "ENGA"
	TagAnnulment    = "ANUL"
	TagMarriageBann = "MARB"

	// LDS ordinances.
	TagLDSBaptism       = "BAPL"
	TagLDSConfirmation  = "CONL"
	TagLDSEndowment     = "ENDL"
	TagLDSChildSealing  = "SLGC"
	TagLDSSpouseSealing = "SLGS"
	TagTemple           = "TEMP"
	TagOrdinanceStatus  = "STAT"

	TagDate  = "DATE"
	TagPlace = "PLAC"
	TagType  = "TYPE"
	TagAge   = "AGE"
	TagCause = "CAUS"
	TagTime  = "TIME"

	TagFamilyChild  = "FAMC"
	TagFamilySpouse = "FAMS"
	TagPedigree     = "PEDI"
	TagHusband      = "HUSB"
	TagWife         = "WIFE"
	TagChild        = "CHIL"
	TagChildCount   = "NCHI"

	TagAuthor       = "AUTH"
	TagPublication  = "PUBL"
	TagText         = "TEXT"
	TagAbbreviation = "ABBR"
	TagData         = "DATA"
	TagAgency       = "AGNC"
	TagPage         = "PAGE"
	TagQuality      = "QUAY"
	TagCallNumber   = "CALN"
	TagMedia        = "MEDI"

	TagAddress    = "ADDR"
	TagAddress1   = "ADR1"
	TagAddress2   = "ADR2"
	TagAddress3   = "ADR3"
	TagCity       = "CITY"
	TagState      = "STAE"
	TagPostalCode = "POST"
	TagCountry    = "CTRY"
	TagPhone      = "PHON"
	TagEmail      = "EMAIL"
	TagWWW        = "WWW"

	TagChange      = "CHAN"
	TagRestriction = "RESN"
	TagRecordID    = "RIN"
	TagReference   = "REFN"
	TagPrivate     = "PRIV"

	// Program-defined tags written by common exporters.
	TagFatherRelation = "_FREL"
	TagMotherRelation = "_MREL"
	TagAncestryPID    = "_APID"
)
