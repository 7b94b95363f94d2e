package csharp

// Tree-sitter C# grammar node kinds and field names this package depends
// on. Centralized here so a grammar bump only needs one file touched.
const (
	kindCompilationUnit       = "compilation_unit"
	kindNamespaceDecl         = "namespace_declaration"
	kindFileScopedNamespace   = "file_scoped_namespace_declaration"
	kindUsingDirective        = "using_directive"
	kindClassDecl             = "class_declaration"
	kindStructDecl            = "struct_declaration"
	kindInterfaceDecl         = "interface_declaration"
	kindEnumDecl              = "enum_declaration"
	kindRecordDecl            = "record_declaration"
	kindRecordStructDecl      = "record_struct_declaration"
	kindIdentifier            = "identifier"
	kindQualifiedName         = "qualified_name"
	kindGenericName           = "generic_name"
	kindAliasQualifiedName    = "alias_qualified_name"
	kindPredefinedType        = "predefined_type"
	kindMethodDecl            = "method_declaration"
	kindConstructorDecl       = "constructor_declaration"
	kindPropertyDecl          = "property_declaration"
	kindAccessorDecl          = "accessor_declaration"
	kindFieldDecl             = "field_declaration"
	kindVariableDeclaration   = "variable_declaration"
	kindBlock                 = "block"
	kindArrowExpressionClause = "arrow_expression_clause"
	kindBaseList              = "base_list"
	kindAttribute             = "attribute"
)

var typeDeclKinds = map[string]bool{
	kindClassDecl:        true,
	kindStructDecl:       true,
	kindInterfaceDecl:    true,
	kindEnumDecl:         true,
	kindRecordDecl:       true,
	kindRecordStructDecl: true,
}

var namespaceDeclKinds = map[string]bool{
	kindNamespaceDecl:       true,
	kindFileScopedNamespace: true,
}

// useSiteKinds: a real use-site for the self-edge rule is a method body,
// property accessor, constructor body, field initializer, block, or
// expression-bodied member.
var useSiteKinds = map[string]bool{
	kindBlock:                 true,
	kindArrowExpressionClause: true,
	kindFieldDecl:             true,
	kindAccessorDecl:          true,
}
