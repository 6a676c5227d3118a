/*
Package condition implements the guard language of stm transitions.

Conditions come in two spellings of the same operators:

	word:     x lt 3, x gt 3, x le 3, x ge 3, x eq 3, x not 3, a and b, a or b
	symbolic: x<3,    x>3,    x<=3,   x>=3,   x==3,   x!=3,    a&&b,    a||b

Models persist the word spelling; code generators consume the symbolic one.
ToSymbolic and ToWords translate between them.

Evaluate runs a closed grammar over integer and boolean literals, input
identifiers, the operators above and parentheses. Nothing else is accepted,
and no part of a condition is ever executed as code.
*/
package condition
