package diag

import "strings"

// hintRule is one (substring match, hint text) pair. Rules are tried
// in order and the first match wins, exactly as
// original_source/src/ergo/diag.c's get_error_tip keyword-matches on
// the rendered message (spec.md §4.G: "a context-sensitive hint
// derived from keyword matching on the message string").
type hintRule struct {
	all  []string // every substring must appear
	hint string
}

var hintRules = []hintRule{
	{[]string{"type mismatch"}, "The types on both sides of this operation don't match. Check your variable types."},
	{[]string{"unknown type", "use num"}, "Yis uses 'num' for all numeric types instead of 'int' or 'float'."},
	{[]string{"unknown type"}, "This type name is not recognized. Check for typos or missing imports."},
	{[]string{"unknown name"}, "This identifier is not defined. Check for typos or missing variable declarations."},
	{[]string{"unknown function"}, "This function is not defined. Check for typos or missing imports."},
	{[]string{"cannot assign to const"}, "Constants cannot be modified after declaration. Use 'let ?name = ...' for mutable variables."},
	{[]string{"cannot assign to immutable"}, "This variable was declared without '?' so it's immutable. Use 'let ?name = ...' for mutability."},
	{[]string{"call on nullable"}, "This value might be null. Use a match with a null arm, or '??', before calling methods."},
	{[]string{"member access on nullable"}, "This value might be null. Guard it before accessing members."},
	{[]string{"indexing nullable"}, "This value might be null. Guard it before indexing."},
	{[]string{"numeric op on nullable"}, "Cannot perform arithmetic on nullable values. Check for null first."},
	{[]string{"comparison on nullable"}, "Cannot compare nullable values. Check for null first."},
	{[]string{"logical op on nullable"}, "Logical operators require boolean values, not nullable ones."},
	{[]string{"tuple arity mismatch"}, "Tuples must have the same number of elements on both sides."},
	{[]string{"arity mismatch"}, "The number of arguments doesn't match the function or constructor signature."},
	{[]string{"global", "used before definition"}, "Global variables must be defined before they are used. Move the definition earlier."},
	{[]string{"duplicate"}, "This name is already defined in this scope. Use a different name or remove the duplicate."},
	{[]string{"entry", "only in the entry module"}, "The entry() function can only be defined in the program's entry cask."},
	{[]string{"missing entry"}, "Your entry cask needs an entry() declaration: 'entry() { ... }'."},
	{[]string{"must be called"}, "Methods and module functions must be called with parentheses, e.g. obj.method() not obj.method."},
	{[]string{"field access", "lock"}, "Fields of 'lock' classes can only be accessed within the declaring file or the class's own methods."},
	{[]string{"requires mutable receiver"}, "This method mutates the receiver, so it must be called on a mutable binding: '?obj.method()'."},
	{[]string{"requires mutable base"}, "The base variable must be declared mutable: 'let ?x = ...'."},
	{[]string{"mutation through immutable"}, "To modify through this value, the base variable must be declared with '?': 'let ?x = ...'."},
	{[]string{"cannot infer type of empty array"}, "Empty arrays need a type annotation, e.g. 'let arr: [num] = []'."},
	{[]string{"foreach", "array or string"}, "for (x in y) requires y to be an array or a string."},
	{[]string{"match requires at least one arm"}, "Add at least one pattern arm to your match expression: 'pattern => expression'."},
	{[]string{"if-expression", "else"}, "An if used as an expression needs a final else arm; an if used as a statement does not."},
	{[]string{"condition cannot be void"}, "The condition here must produce a value, not void."},
	{[]string{"return value in void function"}, "This function doesn't return a value, but you're trying to return one."},
	{[]string{"missing return value"}, "This function expects a return value. Add an expression after 'return'."},
	{[]string{"missing return"}, "Not every path through this function returns a value."},
	{[]string{"const expression must be a literal"}, "Constants can only be simple literals or basic numeric expressions."},
	{[]string{"interpolation", "const"}, "String constants cannot contain interpolated expressions."},
	{[]string{"tuple index", "out of range"}, "The index is too large or negative for this tuple's size."},
	{[]string{"tuple index", "literal"}, "Use a literal index like 'tuple.0' or 'tuple.1', not a variable."},
	{[]string{"indexing requires array or string"}, "You can only use [index] on arrays and strings."},
	{[]string{"member access on non-object"}, "The '.' operator can only be used on class instances or modules."},
	{[]string{"unknown member"}, "This field or method doesn't exist here. Check for typos."},
	{[]string{"unknown module member"}, "This name doesn't exist in the module. Check for typos or missing declarations."},
	{[]string{"unknown class"}, "This class is not defined. Check for typos or missing imports."},
	{[]string{"no init method"}, "This class has no init method; use 'new ClassName()' with positional field values instead."},
	{[]string{"this", "free function"}, "Only class methods may take 'this' as a parameter."},
	{[]string{"must begin with this"}, "Class methods must have 'this' or '?this' as their first parameter."},
	{[]string{"only first param may be this"}, "'this' can only be used as the first parameter of a method."},
	{[]string{"lambda", "this"}, "Lambdas cannot have 'this' as a parameter."},
	{[]string{"move target must be an identifier"}, "move(...) only works on a plain local or global identifier."},
	{[]string{"used after move"}, "This binding was moved and no longer holds a value. Assign a new value before reading it again."},
	{[]string{"cask declaration"}, "A module's declared cask name must match its filename, except the entry module's project name."},
	{[]string{"out of memory"}, "The compiler ran out of memory. Try simplifying the program."},
}

// Hint returns a contextual suggestion for message, or "" if none of
// the rules match.
func Hint(message string) string {
	for _, r := range hintRules {
		matched := true
		for _, sub := range r.all {
			if !strings.Contains(message, sub) {
				matched = false
				break
			}
		}
		if matched {
			return r.hint
		}
	}
	return ""
}
