package extract

import (
	"path/filepath"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/google/go-cmp/cmp"

	"github.com/stackb/autoloader/pkg/symbol"
	"github.com/stackb/autoloader/pkg/testutil"
)

func TestExtract(t *testing.T) {
	for name, tc := range map[string]struct {
		src  string
		want []symbol.Name
	}{
		"degenerate": {},
		"no open tag": {
			src: "class Foo {}",
		},
		"simple class": {
			src:  "<?php class Foo {}",
			want: []symbol.Name{"foo"},
		},
		"interface and trait": {
			src: `<?php
interface Shape {}
trait Named {}
abstract class Base implements Shape {}
final class Circle extends Base {}
`,
			want: []symbol.Name{"shape", "named", "base", "circle"},
		},
		"namespace": {
			src: `<?php
namespace App\Models;

class User {}
`,
			want: []symbol.Name{`app\models\user`},
		},
		"namespace is overwritten": {
			src: `<?php
namespace A;
class X {}
namespace B\C;
class Y {}
namespace {
class Z {}
}
`,
			want: []symbol.Name{`a\x`, `b\c\y`, "z"},
		},
		"bracketed namespace": {
			src: `<?php
namespace Lib {
	class Thing {}
}
`,
			want: []symbol.Name{`lib\thing`},
		},
		"relative namespace name is not a declaration": {
			src: `<?php
namespace App;
namespace\helper();
class Foo {}
`,
			want: []symbol.Name{`app\foo`},
		},
		"keywords are case insensitive": {
			src:  "<?PHP NameSpace Acme; CLASS Widget {}",
			want: []symbol.Name{`acme\widget`},
		},
		"comment between keyword and name": {
			src:  "<?php class/* c */Foo {}",
			want: []symbol.Name{"foo"},
		},
		"keywords in comments and strings are ignored": {
			src: `<?php
// class Commented {}
# class Hashed {}
/* class Blocked {} */
/** class Doc {} */
$a = 'class Single {}';
$b = "class Double {}";
$c = ` + "`class Shell {}`" + `;
class Real {}
`,
			want: []symbol.Name{"real"},
		},
		"heredoc and nowdoc are ignored": {
			src: `<?php
$a = <<<EOT
class Here {}
EOT;
$b = <<<'RAW'
  class Now {}
  RAW;
class After {}
`,
			want: []symbol.Name{"after"},
		},
		"inline text is ignored": {
			src: `<html>class Outside {}</html>
<?php class Inside {} ?>
<p>interface Nope {}</p>
<?= 1 ?>
<?php trait Again {}
`,
			want: []symbol.Name{"inside", "again"},
		},
		"class constant is not a declaration": {
			src: `<?php
$name = Foo::class;
$other = $obj->class;
$maybe = $obj?->class;
class Real {}
`,
			want: []symbol.Name{"real"},
		},
		"anonymous classes are skipped": {
			src: `<?php
$a = new class {};
$b = new class(1) {};
$c = new class extends Base {};
$d = new class implements Iface {};
`,
		},
		"enum": {
			src: `<?php
namespace App;
enum Suit: string {}
class Enum extends Base {}
function enum($x) {}
`,
			want: []symbol.Name{`app\suit`, `app\enum`},
		},
		"namespace segment that is a keyword": {
			src:  `<?php namespace App\Enum; class Status {}`,
			want: []symbol.Name{`app\enum\status`},
		},
		"imported enum is a name segment": {
			src: `<?php
namespace App;
use Lib\Enum as BaseEnum;
class Foo {}
`,
			want: []symbol.Name{`app\foo`},
		},
		"imported interface is a name segment": {
			src: `<?php
namespace App;
use X\Interface as I;
use X\Trait\Helper;
class Foo implements I {}
`,
			want: []symbol.Name{`app\foo`},
		},
		"imported namespace does not change the namespace": {
			src: `<?php
namespace App;
use Lib\Namespace;
class Foo {}
`,
			want: []symbol.Name{`app\foo`},
		},
		"method named namespace": {
			src: `<?php
namespace App;
class Foo { public function namespace() {} }
class Bar {}
`,
			want: []symbol.Name{`app\foo`, `app\bar`},
		},
		"attribute is not a comment": {
			src: `<?php
#[Attribute]
class Marker {}
`,
			want: []symbol.Name{"marker"},
		},
		"line comment ends at close tag": {
			src:  "<?php // comment ?> <?php class Foo {}",
			want: []symbol.Name{"foo"},
		},
		"function names containing keywords": {
			src:  "<?php if (class_exists('X') || interface_exists('Y')) {} class Z {}",
			want: []symbol.Name{"z"},
		},
		"truncated declaration": {
			src: "<?php class",
		},
		"truncated namespace": {
			src:  "<?php namespace",
			want: nil,
		},
		"unterminated string": {
			src: "<?php $a = 'class Foo {}",
		},
		"unterminated comment": {
			src: "<?php /* class Foo {}",
		},
		"unterminated heredoc": {
			src: "<?php $a = <<<EOT\nclass Foo {}\n",
		},
		"malformed heredoc": {
			src:  "<?php $a = <<< ; class Foo {}",
			want: []symbol.Name{"foo"},
		},
		"multiple per file": {
			src:  "<?php class A {} class B {} interface C {}",
			want: []symbol.Name{"a", "b", "c"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			got := Extract(tc.src)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractFile(t *testing.T) {
	tmpDir, _ := testutil.MustPrepareTestFiles(t, []testtools.FileSpec{
		{Path: "a.php", Content: "<?php namespace Acme; class Foo {}"},
	})

	got, err := ExtractFile(filepath.Join(tmpDir, "a.php"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]symbol.Name{`acme\foo`}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if _, err := ExtractFile(filepath.Join(tmpDir, "missing.php")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestExtractNeverPanics(t *testing.T) {
	inputs := []string{
		"<?",
		"<?php",
		"<?php namespace",
		"<?php namespace \\",
		"<?php class \\",
		"<?php $",
		"<?php #",
		"<?php <<<",
		"<?php <<<'",
		"<?php <<<\"EOT",
		"<?php \"\\",
		"<?php '\\",
		"<?php ?",
		"<?php ?-",
		"<?php 1.2.3e",
		"<?php \xff\xfe class \xff {}",
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			Extract(src)
		})
	}
}
