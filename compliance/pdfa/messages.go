package pdfa

// Rule codes. The prefix names the rule family.
const (
	// File structure
	CodeEncrypted      = "ENC001"
	CodeMissingID      = "TRL001"
	CodeHeaderVersion  = "VER001"
	CodeCatalogVersion = "VER002"

	// Implementation limits
	CodeStringTooLong  = "LIM001"
	CodeNameTooLong    = "LIM002"
	CodeIntOutOfRange  = "LIM003"
	CodeRealOutOfRange = "LIM004"
	CodeArrayTooLarge  = "LIM005"
	CodeDictTooLarge   = "LIM006"
	CodeNestingTooDeep = "LIM007"
	CodeDeviceNLimit   = "LIM008"
	CodeTooManyObjects = "LIM009"
	CodeCIDTooLarge    = "LIM010"

	// Output intents
	CodeDeviceColorWithoutIntent = "INT001"
	CodeInvalidOutputProfile     = "INT002"
	CodeOutputProfileClass       = "INT003"
	CodeOutputProfileVersion     = "INT004"
	CodeOutputIntentsDiffer      = "INT005"
	CodeOutputIntentNoProfile    = "INT006"
	CodeOutputProfileSpace       = "INT007"

	// Colour spaces
	CodeDeviceRGB          = "CLR001"
	CodeDeviceCMYK         = "CLR002"
	CodeInvalidICCProfile  = "CLR003"
	CodeICCComponents      = "CLR004"
	CodeSeparationMismatch = "CLR005"
	CodeICCVersion         = "CLR006"

	// Transparency
	CodeExtGStateTransparency = "TRN001"
	CodeImageSoftMask         = "TRN002"
	CodeTransparencyGroup     = "TRN003"
	CodeBlendMode             = "TRN004"
	CodePageGroupColorSpace   = "TRN005"
	CodePageGroup             = "TRN006"

	// Graphics state
	CodeTransferFunction = "GST001"
	CodeTransfer2        = "GST002"
	CodeHalftoneType     = "GST003"
	CodeHalftoneName     = "GST004"
	CodeRenderingIntent  = "GST005"

	// XObjects and images
	CodePostScriptXObject = "XOB001"
	CodeReferenceXObject  = "XOB002"
	CodeOPI               = "XOB003"
	CodeAlternates        = "XOB004"
	CodeInterpolate       = "XOB005"
	CodeLZW               = "XOB006"
	CodeJPXBitDepth       = "XOB007"
	CodeJPXColorSpace     = "XOB008"

	// Fonts
	CodeFontNotEmbedded     = "FNT001"
	CodeMissingCharSet      = "FNT002"
	CodeCharSetIncomplete   = "FNT003"
	CodeMissingCIDToGIDMap  = "FNT004"
	CodeNonSymbolicEncoding = "FNT005"
	CodeSymbolicEncoding    = "FNT006"
	CodeFontCmap            = "FNT007"
	CodeFontWidths          = "FNT008"
	CodeMissingToUnicode    = "FNT009"
	CodeInvalidFontProgram  = "FNT010"

	// Annotations
	CodeAnnotationSubtype     = "ANN001"
	CodeAnnotationNoFlags     = "ANN002"
	CodeAnnotationPrintFlag   = "ANN003"
	CodeAnnotationHiddenFlags = "ANN004"
	CodeAnnotationOpacity     = "ANN005"
	CodeAppearanceKeys        = "ANN006"
	CodeMissingAppearance     = "ANN007"
	CodeButtonAppearance      = "ANN008"
	CodeAnnotationActions     = "ANN009"
	CodeAnnotationContents    = "ANN010"

	// Actions
	CodeForbiddenAction = "ACT001"
	CodeNamedAction     = "ACT002"
	CodeJavaScriptURI   = "ACT003"
	CodeCatalogActions  = "ACT004"
	CodePageActions     = "ACT005"
	CodeFieldActions    = "ACT006"

	// Catalog and forms
	CodeAlternatePresentations = "CAT001"
	CodeJavaScriptNames        = "CAT002"
	CodeNeedsRendering         = "CAT003"
	CodeRequirements           = "CAT004"
	CodeNotMarked              = "CAT005"
	CodeNoStructTree           = "CAT006"
	CodeNoLang                 = "CAT007"
	CodeNeedAppearances        = "FRM001"
	CodeXFA                    = "FRM002"
	CodeOptionalContent        = "LYR001"
	CodeOCConfigName           = "LYR002"
	CodeOCConfigAS             = "LYR003"
	CodeOCConfigOrder          = "LYR004"
	CodeOCConfigNameUnique     = "LYR005"

	// Embedded files
	CodeEmbeddedFile         = "ATT001"
	CodeNonPDFAPayload       = "ATT002"
	CodeFileSpecNames        = "ATT003"
	CodeAFRelationship       = "ATT004"
	CodeEmbeddedFileSubtype  = "ATT005"
	CodeEmbeddedFileModDate  = "ATT006"
	CodeEmbeddedFileChecksum = "ATT007"
	CodeNoEmbeddedFile       = "ATT008"

	// Metadata
	CodeMissingMetadata     = "MET001"
	CodeFilteredMetadata    = "MET002"
	CodeInvalidMetadata     = "MET003"
	CodePartMismatch        = "MET004"
	CodeConformanceMismatch = "MET005"
	CodeMissingRev          = "MET006"
	CodeInfoMismatch        = "MET007"
	CodeInfoEntries         = "MET008"
	CodeMissingPart         = "MET009"

	// Signatures
	CodeSignatureSubFilter = "SIG001"
	CodeSignatureContents  = "SIG002"
	CodeSignatureSigners   = "SIG003"
	CodeSignatureCert      = "SIG004"
	CodeTimestampToken     = "SIG005"
	CodeByteRange          = "SIG006"

	// Pages
	CodePageSize  = "PAG001"
	CodePresSteps = "PAG002"

	// Content streams
	CodeUndefinedOperator = "CNT001"
	CodeContentSyntax     = "CNT002"
)

// messages maps each code to its message. Messages with verbs take the
// arguments given when the violation is raised.
var messages = map[string]string{
	CodeEncrypted:      "The trailer dictionary shall not contain Encrypt key",
	CodeMissingID:      "The trailer dictionary shall contain ID key",
	CodeHeaderVersion:  "The file header version %s is not allowed, the maximum is %s",
	CodeCatalogVersion: "The catalog Version %s is not allowed, the maximum is %s",

	CodeStringTooLong:  "Maximum string length is exceeded: %d bytes",
	CodeNameTooLong:    "Maximum length of a name is exceeded: %d bytes",
	CodeIntOutOfRange:  "Integer value %d is out of range",
	CodeRealOutOfRange: "Absolute value of real number %g is out of range",
	CodeArrayTooLarge:  "Maximum array capacity is exceeded: %d elements",
	CodeDictTooLarge:   "Maximum dictionary capacity is exceeded: %d entries",
	CodeNestingTooDeep: "Graphics state stack depth is greater than %d",
	CodeDeviceNLimit:   "The number of color components in DeviceN colorspace %d exceeds the limit of %d",
	CodeTooManyObjects: "Maximum number of indirect objects is exceeded: %d",
	CodeCIDTooLarge:    "A CID value %d is greater than %d",

	CodeDeviceColorWithoutIntent: "%s shall only be used if a device independent Default colour space has been set or a PDF/A OutputIntent is present",
	CodeInvalidOutputProfile:     "The DestOutputProfile of the PDF/A OutputIntent is not a valid ICC profile: %s",
	CodeOutputProfileClass:       "The DestOutputProfile of the PDF/A OutputIntent shall be an output profile (prtr) or a monitor profile (mntr), found %q",
	CodeOutputProfileVersion:     "The version of the DestOutputProfile ICC profile %d is newer than %d",
	CodeOutputIntentsDiffer:      "If the document contains more than one OutputIntent with DestOutputProfile, all of them shall be the same indirect object",
	CodeOutputIntentNoProfile:    "The PDF/A OutputIntent shall contain the DestOutputProfile key",
	CodeOutputProfileSpace:       "The colour space of the DestOutputProfile shall be GRAY, RGB or CMYK, found %q",

	CodeDeviceRGB:          "DeviceRGB shall only be used if a device independent DefaultRGB colour space has been set or the OutputIntent has an RGB destination profile",
	CodeDeviceCMYK:         "DeviceCMYK shall only be used if a device independent DefaultCMYK colour space has been set or the OutputIntent has a CMYK destination profile",
	CodeICCComponents:      "The N entry %d of the ICCBased colour space does not match the %d components of the embedded profile",
	CodeSeparationMismatch: "All Separation colour spaces named %q shall have the same alternate space and tint transform",
	CodeInvalidICCProfile:  "The ICCBased colour space profile is not valid: %s",
	CodeICCVersion:         "The version of the ICCBased colour space profile %d is newer than %d",

	CodeExtGStateTransparency: "A graphics state dictionary shall not use transparency (%s)",
	CodeImageSoftMask:         "An image dictionary shall not contain the SMask key with a value other than None",
	CodeTransparencyGroup:     "A form XObject dictionary shall not contain a transparency Group",
	CodeBlendMode:             "Only blend modes that are specified in ISO 32000-1 shall be used for the BM key, found %s",
	CodePageGroupColorSpace:   "If the document does not contain a PDF/A OutputIntent, a page that uses transparency shall include a Group with a CS entry",
	CodePageGroup:             "A page dictionary shall not contain a transparency Group",

	CodeTransferFunction: "An ExtGState dictionary shall not contain the TR key",
	CodeTransfer2:        "An ExtGState dictionary shall not contain the TR2 key with a value other than Default",
	CodeHalftoneType:     "The HalftoneType of a halftone shall be 1 or 5, found %d",
	CodeHalftoneName:     "A halftone shall not contain the HalftoneName key",
	CodeRenderingIntent:  "The rendering intent %q is not one of the standard rendering intents",

	CodePostScriptXObject: "PostScript XObjects shall not be used",
	CodeReferenceXObject:  "A form XObject dictionary shall not contain the Ref key",
	CodeOPI:               "An XObject dictionary shall not contain the OPI key",
	CodeAlternates:        "An image dictionary shall not contain the Alternates key",
	CodeInterpolate:       "The value of the Interpolate key in an image dictionary shall be false",
	CodeLZW:               "LZWDecode filter is not permitted",
	CodeJPXBitDepth:       "The bit depth of a JPEG2000 image shall be in the range 1 to 38, found %d",
	CodeJPXColorSpace:     "A JPEG2000 image without an embedded colour specification shall have a ColorSpace",

	CodeFontNotEmbedded:     "All the fonts used in PDF/A documents shall be embedded: %s",
	CodeMissingCharSet:      "The FontDescriptor of a Type 1 font subset shall contain the CharSet key: %s",
	CodeCharSetIncomplete:   "The CharSet of font %s shall list the names of all glyphs present in the font program",
	CodeMissingCIDToGIDMap:  "A CIDFontType2 dictionary shall contain the CIDToGIDMap key: %s",
	CodeNonSymbolicEncoding: "All non-symbolic TrueType fonts shall specify MacRomanEncoding or WinAnsiEncoding as the Encoding: %s",
	CodeSymbolicEncoding:    "Symbolic TrueType font %s shall not contain the Encoding key",
	CodeFontCmap:            "The embedded TrueType font program %s does not contain a suitable cmap subtable",
	CodeFontWidths:          "The glyph width of code %d in font %s is %d in the Widths array and %.0f in the font program",
	CodeMissingToUnicode:    "The font %s shall contain a ToUnicode CMap",
	CodeInvalidFontProgram:  "The embedded font program of %s cannot be read: %s",

	CodeAnnotationSubtype:     "%s annotations are not permitted",
	CodeAnnotationNoFlags:     "The annotation dictionary shall contain the F key",
	CodeAnnotationPrintFlag:   "The F key's Print flag bit shall be set to 1",
	CodeAnnotationHiddenFlags: "The F key's Hidden, Invisible, ToggleNoView and NoView flag bits shall be set to 0",
	CodeAnnotationOpacity:     "An annotation dictionary shall not contain the CA key with a value other than 1.0",
	CodeAppearanceKeys:        "The appearance dictionary shall contain only the N key",
	CodeMissingAppearance:     "Every annotation except Popup and Link shall have an appearance dictionary: %s",
	CodeButtonAppearance:      "The N key of a Btn widget appearance dictionary shall be an appearance subdictionary",
	CodeAnnotationActions:     "An annotation dictionary shall not contain the AA key",
	CodeAnnotationContents:    "A %s annotation shall contain the Contents key",

	CodeForbiddenAction: "%s actions are not allowed",
	CodeNamedAction:     "Named action %s is not allowed",
	CodeJavaScriptURI:   "URI actions shall not use the javascript scheme",
	CodeCatalogActions:  "The document catalog dictionary shall not include an AA entry",
	CodePageActions:     "The page dictionary shall not include an AA entry",
	CodeFieldActions:    "A form field dictionary shall not include an AA entry",

	CodeAlternatePresentations: "The document catalog shall not contain the AlternatePresentations entry in its name dictionary",
	CodeJavaScriptNames:        "The document catalog shall not contain the JavaScript entry in its name dictionary",
	CodeNeedsRendering:         "The NeedsRendering key of the document catalog shall not be true",
	CodeRequirements:           "The document catalog dictionary shall not contain the Requirements key",
	CodeNotMarked:              "The MarkInfo dictionary shall contain Marked with value true",
	CodeNoStructTree:           "The document catalog dictionary shall contain the StructTreeRoot key",
	CodeNoLang:                 "The document catalog dictionary shall contain the Lang key",
	CodeNeedAppearances:        "The NeedAppearances flag of the interactive form dictionary shall be false or absent",
	CodeXFA:                    "The interactive form dictionary shall not contain the XFA key",
	CodeOptionalContent:        "Optional content is not allowed",
	CodeOCConfigName:           "Every optional content configuration dictionary shall contain the Name key",
	CodeOCConfigAS:             "An optional content configuration dictionary shall not contain the AS key",
	CodeOCConfigOrder:          "Optional content group %q shall be listed in the Order array of every configuration",
	CodeOCConfigNameUnique:     "Optional content configuration name %q shall be unique",

	CodeEmbeddedFile:         "Embedded files are not allowed",
	CodeNonPDFAPayload:       "Embedded file %s shall comply with PDF/A-1 or PDF/A-2",
	CodeFileSpecNames:        "The file specification dictionary %s shall contain the F and UF keys",
	CodeAFRelationship:       "The file specification dictionary %s shall contain the AFRelationship key",
	CodeEmbeddedFileSubtype:  "The embedded file stream %s shall contain the Subtype key with a MIME type",
	CodeEmbeddedFileModDate:  "The embedded file stream %s shall contain Params with a ModDate",
	CodeEmbeddedFileChecksum: "The CheckSum of embedded file %s does not match its content",
	CodeNoEmbeddedFile:       "A PDF/A-4f document shall contain at least one embedded file",

	CodeMissingMetadata:     "The document catalog dictionary shall contain the Metadata key",
	CodeFilteredMetadata:    "The metadata stream shall not contain the Filter key",
	CodeInvalidMetadata:     "The metadata stream is not a valid XMP packet: %s",
	CodePartMismatch:        "The pdfaid:part %d does not match the conformance level part %d",
	CodeConformanceMismatch: "The pdfaid:conformance %q does not match the conformance level %q",
	CodeMissingRev:          "The metadata shall contain the pdfaid:rev property",
	CodeInfoMismatch:        "The %s entry of the document information dictionary does not match the corresponding XMP property",
	CodeInfoEntries:         "The document information dictionary shall only contain the ModDate key, found %s",
	CodeMissingPart:         "The metadata shall contain the pdfaid:part property",

	CodeSignatureSubFilter: "The SubFilter %q of the signature dictionary is not allowed",
	CodeSignatureContents:  "The Contents of the signature dictionary shall be a DER-encoded CMS SignedData object: %s",
	CodeSignatureSigners:   "The signature shall contain exactly one SignerInfo, found %d",
	CodeSignatureCert:      "The signer's certificate shall be present in the signature",
	CodeTimestampToken:     "The document timestamp is not a valid RFC 3161 time-stamp token: %s",
	CodeByteRange:          "The ByteRange of the signature shall cover the entire file except the Contents value",

	CodePageSize:  "The %s of the page shall be between 3 and 14400 units, found %gx%g",
	CodePresSteps: "The page dictionary shall not contain the PresSteps key",

	CodeUndefinedOperator: "The content stream contains the undefined operator %s",
	CodeContentSyntax:     "The content stream cannot be parsed: %s",
}
