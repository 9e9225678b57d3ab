package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Синтаксические (граница парсера)
	UnexpectedOrInvalidToken            Code = 1024
	UnexpectedEnd                       Code = 1025
	UnallowedNumericSuffix              Code = 1026
	UnallowedLineBreak                  Code = 1027
	Expected                            Code = 1028
	ExpectedIdentifier                  Code = 1029
	ExpectedExpression                  Code = 1030
	ExpectedXMLName                     Code = 1031
	ExpectedXMLAttributeValue           Code = 1032
	IllegalNullishCoalescingLeftOperand Code = 1033
	WrongParameterPosition              Code = 1034
	DuplicateRestParameter              Code = 1035
	NotAllowedHere                      Code = 1036
	MalformedRestParameter              Code = 1037
	IllegalForInInitializer             Code = 1038
	MultipleForInBindings               Code = 1039
	UndefinedLabel                      Code = 1040
	IllegalContinue                     Code = 1041
	IllegalBreak                        Code = 1042
	ExpressionMustNotFollowLineBreak    Code = 1043
	TokenMustNotFollowLineBreak         Code = 1044
	ExpectedStringLiteral               Code = 1045
	DuplicateAttribute                  Code = 1046
	DuplicateVisibility                 Code = 1047
	ExpectedDirectiveKeyword            Code = 1048
	UnallowedAttribute                  Code = 1049
	MalformedEnumMember                 Code = 1051
	FunctionMayNotBeGenerator           Code = 1052
	FunctionMayNotBeAsynchronous        Code = 1053
	FunctionMustNotContainBody          Code = 1054
	FunctionMustContainBody             Code = 1055
	FunctionMustNotContainAnnotations   Code = 1056
	NestedClassesNotAllowed             Code = 1057
	DirectiveNotAllowedInInterface      Code = 1058
	FailedParsingJetDocTag              Code = 1059
	UnrecognizedJetDocTag               Code = 1060
	UnrecognizedProxy                   Code = 1061
	EnumMembersMustBeConst              Code = 1062
	ConstructorMustNotSpecifyResultType Code = 1063

	// Семантические
	IncompatibleTypes                   Code = 1064
	ReferenceIsWriteOnly                Code = 1065
	ReferenceIsReadOnly                 Code = 1066
	ReferenceIsNotDeletable             Code = 1067
	AmbiguousReference                  Code = 1068
	AccessingPropertyOfVoidBase         Code = 1069
	AccessingPropertyOfNullableBase     Code = 1070
	InaccessibleProperty                Code = 1071
	ParameterizedTypeMustBeArgumented   Code = 1072
	UnrecognizedEmbedExpressionField    Code = 1073
	MustResolveToType                   Code = 1074
	EmbedSourceOrTypeNotSpecified       Code = 1075
	EmbedUnsupportedType                Code = 1076
	FailedLoadingEmbeddedFile           Code = 1077
	FailedParsingNumericLiteral         Code = 1078
	StringLiteralMustBeASingleCharacter Code = 1079
	EnumerationHasNoMember              Code = 1080
	UnrecognizedMetadataSyntax          Code = 1081
	FailedLoadingMetadataFile           Code = 1082
	IllegalThisReference                Code = 1083
	CannotUseTypeInRest                 Code = 1084
	ArrayLiteralMustNotContainElision   Code = 1085
	ArrayLiteralMustNotContainRest      Code = 1086
	ArrayLiteralExceedingTupleElements  Code = 1087
	InitializerUnsupportedType          Code = 1088
	UndefinedProperty                   Code = 1089
	IncompatibleFieldKey                Code = 1090
	MissingPropertyInLiteral            Code = 1091

	// Реализация интерфейсов
	MethodNotImplemented           Code = 1092
	GetterNotImplemented           Code = 1093
	SetterNotImplemented           Code = 1094
	PropertyMustBeMethod           Code = 1095
	PropertyMustBeVirtualProperty  Code = 1096
	WrongMethodSignature           Code = 1097
	WrongGetterSignature           Code = 1098
	WrongSetterSignature           Code = 1099
	WrongInterfaceMemberVisibility Code = 1100
	ExpectedInterfaceType          Code = 1101
	VerificationDidNotConverge     Code = 1102
	DuplicateDefinition            Code = 1103
	OptionalOutsideInterface       Code = 1104

	// IO
	IOLoadFileError     Code = 4001
	IOMalformedSnapshot Code = 4002

	// Проект
	ProjNoSources Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	UnexpectedOrInvalidToken:            "Unexpected or invalid token",
	UnexpectedEnd:                       "Unexpected end of program",
	UnallowedNumericSuffix:              "Unallowed numeric suffix",
	UnallowedLineBreak:                  "Unallowed line break",
	Expected:                            "Expected token",
	ExpectedIdentifier:                  "Expected identifier",
	ExpectedExpression:                  "Expected expression",
	ExpectedXMLName:                     "Expected XML name",
	ExpectedXMLAttributeValue:           "Expected XML attribute value",
	IllegalNullishCoalescingLeftOperand: "Illegal nullish coalescing left operand",
	WrongParameterPosition:              "Wrong parameter position",
	DuplicateRestParameter:              "Duplicate rest parameter",
	NotAllowedHere:                      "Not allowed here",
	MalformedRestParameter:              "Malformed rest parameter",
	IllegalForInInitializer:             "Illegal for..in initializer",
	MultipleForInBindings:               "Multiple for..in bindings",
	UndefinedLabel:                      "Undefined label",
	IllegalContinue:                     "Illegal continue statement",
	IllegalBreak:                        "Illegal break statement",
	ExpressionMustNotFollowLineBreak:    "Expression must not follow line break",
	TokenMustNotFollowLineBreak:         "Token must not follow line break",
	ExpectedStringLiteral:               "Expected string literal",
	DuplicateAttribute:                  "Duplicate attribute",
	DuplicateVisibility:                 "Duplicate visibility",
	ExpectedDirectiveKeyword:            "Expected directive keyword",
	UnallowedAttribute:                  "Unallowed attribute",
	MalformedEnumMember:                 "Malformed enumeration member",
	FunctionMayNotBeGenerator:           "Function may not be a generator",
	FunctionMayNotBeAsynchronous:        "Function may not be asynchronous",
	FunctionMustNotContainBody:          "Function must not contain body",
	FunctionMustContainBody:             "Function must contain body",
	FunctionMustNotContainAnnotations:   "Function must not contain annotations",
	NestedClassesNotAllowed:             "Nested classes are not allowed",
	DirectiveNotAllowedInInterface:      "Directive not allowed in interface",
	FailedParsingJetDocTag:              "Failed parsing JetDoc tag",
	UnrecognizedJetDocTag:               "Unrecognized JetDoc tag",
	UnrecognizedProxy:                   "Unrecognized proxy",
	EnumMembersMustBeConst:              "Enumeration members must be const",
	ConstructorMustNotSpecifyResultType: "Constructor must not specify result type",

	IncompatibleTypes:                   "Incompatible types",
	ReferenceIsWriteOnly:                "Reference is write-only",
	ReferenceIsReadOnly:                 "Reference is read-only",
	ReferenceIsNotDeletable:             "Reference is not deletable",
	AmbiguousReference:                  "Ambiguous reference",
	AccessingPropertyOfVoidBase:         "Accessing property of void base",
	AccessingPropertyOfNullableBase:     "Accessing property of nullable base",
	InaccessibleProperty:                "Inaccessible property",
	ParameterizedTypeMustBeArgumented:   "Parameterized type must be argumented",
	UnrecognizedEmbedExpressionField:    "Unrecognized embed expression field",
	MustResolveToType:                   "Reference must resolve to a type",
	EmbedSourceOrTypeNotSpecified:       "Embed source or type not specified",
	EmbedUnsupportedType:                "Embed of unsupported type",
	FailedLoadingEmbeddedFile:           "Failed loading embedded file",
	FailedParsingNumericLiteral:         "Failed parsing numeric literal",
	StringLiteralMustBeASingleCharacter: "String literal must be a single character",
	EnumerationHasNoMember:              "Enumeration has no such member",
	UnrecognizedMetadataSyntax:          "Unrecognized metadata syntax",
	FailedLoadingMetadataFile:           "Failed loading metadata file",
	IllegalThisReference:                "Illegal this reference",
	CannotUseTypeInRest:                 "Cannot use type in rest",
	ArrayLiteralMustNotContainElision:   "Array literal must not contain elision",
	ArrayLiteralMustNotContainRest:      "Array literal must not contain rest",
	ArrayLiteralExceedingTupleElements:  "Array literal exceeds tuple elements",
	InitializerUnsupportedType:          "Initializer of unsupported type",
	UndefinedProperty:                   "Undefined property",
	IncompatibleFieldKey:                "Incompatible field key",
	MissingPropertyInLiteral:            "Missing property in literal",

	MethodNotImplemented:           "Interface method not implemented",
	GetterNotImplemented:           "Interface getter not implemented",
	SetterNotImplemented:           "Interface setter not implemented",
	PropertyMustBeMethod:           "Property must be a method",
	PropertyMustBeVirtualProperty:  "Property must be a virtual property",
	WrongMethodSignature:           "Wrong method signature",
	WrongGetterSignature:           "Wrong getter signature",
	WrongSetterSignature:           "Wrong setter signature",
	WrongInterfaceMemberVisibility: "Wrong interface member visibility",
	ExpectedInterfaceType:          "Expected interface type",
	VerificationDidNotConverge:     "Deferred verification did not converge",
	DuplicateDefinition:            "Duplicate definition",
	OptionalOutsideInterface:       "Optional outside interface",

	IOLoadFileError:     "I/O load file error",
	IOMalformedSnapshot: "Malformed declaration snapshot",

	ProjNoSources: "No sources found",
}

// ID returns the stable textual identifier, e.g. "SEM1092".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1024 && ic < 1064:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 1064 && ic < 2000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
